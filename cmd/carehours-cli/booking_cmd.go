package main

import (
	"fmt"
	"io"
	"strings"
)

func bookingUsage() string {
	return strings.TrimSpace(`Usage:
  carehours-cli booking <command> [flags]

Commands:
  create    Book an offer against a request (--offer, --request, --hours, --metadata)
  get       Show a booking (--id)
  start     Start a pending booking (--id)
  complete  Complete an active booking (--id)
  cancel    Cancel a pending booking and refund the escrow (--id)
  dispute   Open a dispute (--id, --reason, --evidence)
  resolve   Arbitrate a dispute (--id, --release-to-provider)
  refund    Refund a dispute that timed out (--id)
`)
}

var bookingIDMethods = map[string]struct {
	method string
	auth   bool
}{
	"get":      {method: "booking_get"},
	"start":    {method: "booking_start", auth: true},
	"complete": {method: "booking_complete", auth: true},
	"cancel":   {method: "booking_cancel", auth: true},
	"refund":   {method: "booking_timeoutRefund", auth: true},
}

func runBookingCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, bookingUsage())
		return 1
	}
	if spec, ok := bookingIDMethods[args[0]]; ok {
		return runBookingByIDWith("booking "+args[0], bookingUsage, spec.method, spec.auth, args[1:], stdout, stderr)
	}
	switch args[0] {
	case "create":
		return runBookingCreate(args[1:], stdout, stderr)
	case "dispute":
		return runBookingDispute(args[1:], stdout, stderr)
	case "resolve":
		return runBookingResolve(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown booking subcommand: %s\n", args[0])
		fmt.Fprintln(stderr, bookingUsage())
		return 1
	}
}

func runBookingCreate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("booking create", stderr, bookingUsage)
	var (
		offer, request, hours uint64
		metadata              string
	)
	fs.Uint64Var(&offer, "offer", 0, "offer id")
	fs.Uint64Var(&request, "request", 0, "request id")
	fs.Uint64Var(&hours, "hours", 0, "hours to escrow")
	fs.StringVar(&metadata, "metadata", "", "optional booking notes")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 0 {
		return printError(stderr, "unexpected positional arguments")
	}
	if offer == 0 {
		return printError(stderr, "--offer is required")
	}
	if request == 0 {
		return printError(stderr, "--request is required")
	}
	if hours == 0 {
		return printError(stderr, "--hours must be positive")
	}
	params := map[string]interface{}{"offerId": offer, "requestId": request, "hours": hours}
	if strings.TrimSpace(metadata) != "" {
		params["metadata"] = metadata
	}
	return invoke(stdout, stderr, "booking_create", params, true)
}

func runBookingDispute(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("booking dispute", stderr, bookingUsage)
	var (
		id       uint64
		reason   string
		evidence string
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.StringVar(&reason, "reason", "", "dispute reason")
	fs.StringVar(&evidence, "evidence", "", "optional 0x-prefixed evidence digest")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return printError(stderr, "--reason is required")
	}
	params := map[string]interface{}{"bookingId": id, "reason": reason}
	if evidence != "" {
		if err := validateDigest(evidence); err != nil {
			return printError(stderr, "--evidence "+err.Error())
		}
		params["evidenceHash"] = evidence
	}
	return invoke(stdout, stderr, "booking_dispute", params, true)
}

func runBookingResolve(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("booking resolve", stderr, bookingUsage)
	var (
		id      uint64
		release bool
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.BoolVar(&release, "release-to-provider", false, "pay the provider instead of refunding the requester")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	return invoke(stdout, stderr, "booking_resolve", map[string]interface{}{"bookingId": id, "releaseToProvider": release}, true)
}
