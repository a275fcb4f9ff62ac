package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/chainauction/core"
	"github.com/cloudx-io/chainauction/validation"
)

// displayUnitScale converts base units to display units (10^6 base units per
// display unit, e.g. lovelace per ada).
const displayUnitScale = 6

func main() {
	// Define CLI flags
	var (
		paramsInput   = flag.String("params", "", "Auction parameters JSON (file path or inline JSON)")
		redeemerInput = flag.String("redeemer", "", "Redeemer blob, base64 CBOR (file path or inline string)")
		contextInput  = flag.String("context", "", "Transaction context blob, base64 CBOR (file path or inline string)")
		outputFormat  = flag.String("format", "text", "Output format: text or json")
		help          = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	// Show help
	if *help {
		showUsage()
		os.Exit(0)
	}

	// Check for required inputs
	if *paramsInput == "" || *redeemerInput == "" || *contextInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: All three inputs are required (--params, --redeemer, --context)\n")
		os.Exit(2)
	}

	// Parse inputs
	params, err := readParamsInput(*paramsInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading auction parameters: %v\n", err)
		os.Exit(2)
	}

	redeemerBlob, err := readBlobInput(*redeemerInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading redeemer: %v\n", err)
		os.Exit(2)
	}

	contextBlob, err := readBlobInput(*contextInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transaction context: %v\n", err)
		os.Exit(2)
	}

	// Validate using library
	result := validation.ValidateSpend(params, redeemerBlob, contextBlob)

	// Output results
	if *outputFormat == "json" {
		outputJSON(result)
	} else {
		outputText(params, result)
	}

	// Exit with appropriate code
	if !result.IsValid() {
		os.Exit(1)
	}
	os.Exit(0)
}

func showUsage() {
	fmt.Println("Auction Spend Validator")
	fmt.Println()
	fmt.Println("Decides whether a candidate ledger transaction may consume an auction's locked value.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  auction-validator --params <json> --redeemer <base64> --context <base64> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --params <json>                   Auction parameters (seller, asset, min bid, end time)")
	fmt.Println("  --redeemer <base64>               CBOR redeemer blob (the requested action)")
	fmt.Println("  --context <base64>                CBOR transaction context blob (outputs, validity range, input state)")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --format <text|json>              Output format (default: text)")
	fmt.Println("  --help                            Show this help message")
	fmt.Println()
	fmt.Println("Input Format:")
	fmt.Println("  Each flag accepts either a file path or an inline value.")
	fmt.Println()
	fmt.Println("Auction Parameters:")
	fmt.Println("  {")
	fmt.Println("    \"seller\": \"addr_seller\",")
	fmt.Println("    \"asset\": {\"policy_id\": \"a1b2c3\", \"name\": \"TICKET\"},")
	fmt.Println("    \"min_bid\": 10,")
	fmt.Println("    \"end_time\": 1000")
	fmt.Println("  }")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Using files")
	fmt.Println("  auction-validator --params auction.json --redeemer redeemer.b64 --context context.b64")
	fmt.Println()
	fmt.Println("  # Using inline values (payout redeemer)")
	fmt.Println("  auction-validator \\")
	fmt.Println("    --params '{\"seller\":\"addr_seller\",\"asset\":{\"policy_id\":\"a1\",\"name\":\"TICKET\"},\"min_bid\":10,\"end_time\":1000}' \\")
	fmt.Println("    --redeemer gQE= \\")
	fmt.Println("    --context context.b64")
	fmt.Println()
	fmt.Println("Exit Codes:")
	fmt.Println("  0 - Transaction accepted")
	fmt.Println("  1 - Transaction rejected")
	fmt.Println("  2 - Invalid input or runtime error")
}

func readParamsInput(input string) (core.AuctionParams, error) {
	// Try reading as file first
	data := []byte(input)
	if fileData, err := os.ReadFile(input); err == nil {
		data = fileData
	}
	var params core.AuctionParams
	if err := json.Unmarshal(data, &params); err != nil {
		return core.AuctionParams{}, fmt.Errorf("parse auction parameters: %w", err)
	}
	return params, nil
}

func readBlobInput(input string) ([]byte, error) {
	// Try reading as file first
	encoded := input
	if fileData, err := os.ReadFile(input); err == nil {
		encoded = string(fileData)
	}
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode base64 blob: %w", err)
	}
	return blob, nil
}

func outputJSON(result *validation.SpendValidationResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}

func outputText(params core.AuctionParams, result *validation.SpendValidationResult) {
	fmt.Println("Auction Spend Validation")
	fmt.Println("========================")
	fmt.Printf("Seller:      %s\n", params.Seller)
	fmt.Printf("Asset:       %s/%s\n", params.Asset.PolicyID, params.Asset.Name)
	fmt.Printf("Minimum bid: %s\n", formatAmount(params.MinBid))
	fmt.Printf("End time:    %d\n", params.EndTime)
	fmt.Println()

	for _, detail := range result.Details {
		fmt.Printf("  - %s\n", detail)
	}
	fmt.Println()

	if result.Accepted {
		fmt.Println("Verdict: ACCEPT")
	} else {
		fmt.Printf("Verdict: REJECT (%s)\n", result.Reason)
	}
}

// formatAmount renders a base-unit amount with its display-unit equivalent,
// e.g. "15 (0.000015)".
func formatAmount(baseUnits uint64) string {
	display := decimal.NewFromUint64(baseUnits).Shift(-displayUnitScale)
	return fmt.Sprintf("%d (%s)", baseUnits, display.StringFixed(displayUnitScale))
}
