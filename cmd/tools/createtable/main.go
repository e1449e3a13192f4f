package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "printora:printora@tcp(localhost:3306)/printora?parseTime=true&multiStatements=true&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  number VARCHAR(32) NOT NULL,
	  provider_order_id VARCHAR(64) NULL,
	  provider_status VARCHAR(64) NOT NULL DEFAULT '',
	  creator_id CHAR(36) NOT NULL,
	  customer_name VARCHAR(255) NOT NULL,
	  customer_email VARCHAR(255) NOT NULL,
	  shipping_address JSON NULL,
	  subtotal_cents BIGINT NOT NULL DEFAULT 0,
	  shipping_cents BIGINT NOT NULL DEFAULT 0,
	  tax_cents BIGINT NOT NULL DEFAULT 0,
	  discount_cents BIGINT NOT NULL DEFAULT 0,
	  total_cents BIGINT NOT NULL DEFAULT 0,
	  currency CHAR(3) NOT NULL DEFAULT 'USD',
	  commission_rate DOUBLE NOT NULL DEFAULT 0,
	  status VARCHAR(32) NOT NULL,
	  payment_status VARCHAR(32) NOT NULL,
	  paid_at DATETIME(3) NULL,
	  sent_to_production_at DATETIME(3) NULL,
	  shipped_at DATETIME(3) NULL,
	  delivered_at DATETIME(3) NULL,
	  cancelled_at DATETIME(3) NULL,
	  refunded_at DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_orders_number (number),
	  UNIQUE KEY ux_orders_provider_order_id (provider_order_id),
	  KEY ix_orders_creator_id (creator_id),
	  KEY ix_orders_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS order_items (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  product_id CHAR(36) NOT NULL,
	  variant_id CHAR(36) NOT NULL,
	  provider_product_id VARCHAR(64) NOT NULL,
	  provider_variant_id VARCHAR(64) NOT NULL,
	  provider_item_id VARCHAR(64) NULL,
	  name VARCHAR(255) NOT NULL,
	  sku VARCHAR(64) NOT NULL DEFAULT '',
	  quantity INT NOT NULL DEFAULT 1,
	  base_cost_cents BIGINT NOT NULL DEFAULT 0,
	  selling_price_cents BIGINT NOT NULL DEFAULT 0,
	  profit_cents BIGINT NOT NULL DEFAULT 0,
	  creator_commission_cents BIGINT NOT NULL DEFAULT 0,
	  platform_fee_cents BIGINT NOT NULL DEFAULT 0,
	  shipping_cost_cents BIGINT NOT NULL DEFAULT 0,
	  status VARCHAR(32) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_order_items_order_id (order_id),
	  CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS shipments (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  provider_shipment_id VARCHAR(64) NOT NULL,
	  carrier VARCHAR(64) NOT NULL DEFAULT '',
	  tracking_number VARCHAR(128) NOT NULL DEFAULT '',
	  tracking_url VARCHAR(512) NOT NULL DEFAULT '',
	  status VARCHAR(32) NOT NULL,
	  item_ids JSON NULL,
	  dispatched_at DATETIME(3) NULL,
	  delivered_at DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_shipments_order_provider (order_id, provider_shipment_id),
	  CONSTRAINT fk_shipments_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS commission_payments (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  creator_id CHAR(36) NOT NULL,
	  amount_cents BIGINT NOT NULL,
	  currency CHAR(3) NOT NULL,
	  status VARCHAR(32) NOT NULL,
	  payout_method VARCHAR(32) NOT NULL DEFAULT '',
	  external_tx_id VARCHAR(128) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_commission_payments_order_id (order_id),
	  KEY ix_commission_payments_creator_id (creator_id),
	  KEY ix_commission_payments_status (status),
	  CONSTRAINT fk_commission_payments_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS order_events (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  source VARCHAR(32) NOT NULL,
	  action VARCHAR(64) NOT NULL,
	  from_status VARCHAR(32) NOT NULL,
	  to_status VARCHAR(32) NOT NULL,
	  note VARCHAR(255) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_order_events_order_id (order_id),
	  CONSTRAINT fk_order_events_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS provider_events (
	  id CHAR(36) NOT NULL,
	  provider VARCHAR(64) NOT NULL,
	  event_id VARCHAR(128) NOT NULL,
	  event_type VARCHAR(128) NOT NULL,
	  subject VARCHAR(64) NOT NULL,
	  payload_json JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL,
	  processed_at DATETIME(3) NULL,
	  process_error VARCHAR(255) NULL,
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_provider_events_provider_event (provider, event_id),
	  KEY ix_provider_events_subject (subject)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS creator_earnings (
	  creator_id CHAR(36) NOT NULL,
	  total_earnings_cents BIGINT NOT NULL DEFAULT 0,
	  pending_earnings_cents BIGINT NOT NULL DEFAULT 0,
	  paid_earnings_cents BIGINT NOT NULL DEFAULT 0,
	  total_sales_cents BIGINT NOT NULL DEFAULT 0,
	  total_orders BIGINT NOT NULL DEFAULT 0,
	  payout_method VARCHAR(32) NOT NULL DEFAULT '',
	  payout_details JSON NULL,
	  last_payout_at DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (creator_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ orders tables created successfully")
	log.Println("✓ provider_events table created successfully")
	log.Println("✓ creator_earnings table created successfully")
}
