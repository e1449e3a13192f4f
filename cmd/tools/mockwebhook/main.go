package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"printora.com/app/internal/modules/fulfillment"
)

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/fulfillment", "Webhook URL")
	secret := flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "Webhook secret (empty sends unsigned)")
	eventID := flag.String("event-id", "evt_"+randomHex(8), "Event ID")
	subject := flag.String("order", "prov_"+randomHex(8), "Provider order id (subject)")
	stage := flag.String("stage", "InProgress", "Stage value (InProgress, Complete, Cancelled, or anything)")
	inProduction := flag.Bool("in-production", false, "Mark the order snapshot as already in production")
	shipmentID := flag.String("shipment", "", "Include a shipment with this provider shipment id")
	carrier := flag.String("carrier", "DHL", "Shipment carrier")
	tracking := flag.String("tracking", "TRK123456789", "Shipment tracking number")
	itemCharge := flag.Float64("item-charge", 0, "Include an Item charge with this amount")
	shipCharge := flag.Float64("ship-charge", 0, "Include a Shipping charge with this amount")
	dryRun := flag.Bool("dry-run", false, "Only print the payload, don't send")

	flag.Parse()

	ev := fulfillment.Event{
		ID:      *eventID,
		Type:    "order.status.stage.changed#" + *stage,
		Subject: *subject,
		Time:    time.Now().UTC(),
	}
	ev.Data.Order = &fulfillment.OrderSnapshot{
		Stage:        *stage,
		InProduction: *inProduction,
	}
	if *shipmentID != "" {
		now := time.Now().UTC()
		ev.Data.Shipments = []fulfillment.ShipmentInfo{{
			ID:             *shipmentID,
			Carrier:        *carrier,
			TrackingNumber: *tracking,
			TrackingURL:    "https://track.example.com/" + *tracking,
			Status:         "shipped",
			DispatchedAt:   &now,
		}}
	}
	if *itemCharge > 0 {
		ev.Data.Charges = append(ev.Data.Charges, fulfillment.Charge{Type: "Item", Amount: *itemCharge})
	}
	if *shipCharge > 0 {
		ev.Data.Charges = append(ev.Data.Charges, fulfillment.Charge{Type: "Shipping", Amount: *shipCharge})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Body: %s\n", string(body))

	var sigHeader string
	if *secret != "" {
		t := time.Now().Unix()
		sig := fulfillment.ComputeSignature([]byte(*secret), t, body)
		sigHeader = fmt.Sprintf("t=%d,v1=%s", t, sig)
		fmt.Printf("%s: %s\n", fulfillment.SignatureHeader, sigHeader)
	}

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest("POST", *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	if sigHeader != "" {
		req.Header.Set(fulfillment.SignatureHeader, sigHeader)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func randomHex(n int) string {
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)[:n]
}
