package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

func verifyUsage() string {
	return strings.TrimSpace(`Usage:
  carehours-cli verify <command> [flags]

Commands:
  initiate  Declare the outcome of a booking (--id, --satisfied, --rating, --evidence)
  evidence  Submit an evidence digest (--id, --digest, --description)
  escalate  Escalate to the arbitration oracle (--id, --fee)
  resolve   Record the oracle verdict (--id, --favor-requester)
  confirm   Confirm or reject the outcome (--id, --agrees)
  revoke    Revoke a recent verification (--id, --reason)
  get       Show a verification record (--id)
`)
}

func validateDigest(value string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if err != nil || len(raw) != 32 {
		return errors.New("must be a 32-byte hex digest")
	}
	return nil
}

func runVerifyCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, verifyUsage())
		return 1
	}
	switch args[0] {
	case "initiate":
		return runVerifyInitiate(args[1:], stdout, stderr)
	case "evidence":
		return runVerifyEvidence(args[1:], stdout, stderr)
	case "escalate":
		return runVerifyEscalate(args[1:], stdout, stderr)
	case "resolve":
		return runVerifyResolve(args[1:], stdout, stderr)
	case "confirm":
		return runVerifyConfirm(args[1:], stdout, stderr)
	case "revoke":
		return runVerifyRevoke(args[1:], stdout, stderr)
	case "get":
		return runBookingByIDWith("verify get", verifyUsage, "verification_get", false, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown verify subcommand: %s\n", args[0])
		fmt.Fprintln(stderr, verifyUsage())
		return 1
	}
}

// runBookingByIDWith handles subcommands whose only flag is --id.
func runBookingByIDWith(name string, usageText func() string, method string, auth bool, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(name, stderr, usageText)
	var id uint64
	fs.Uint64Var(&id, "id", 0, "booking id")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	return invoke(stdout, stderr, method, map[string]interface{}{"bookingId": id}, auth)
}

func runVerifyInitiate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify initiate", stderr, verifyUsage)
	var (
		id        uint64
		satisfied bool
		rating    int
		evidence  string
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.BoolVar(&satisfied, "satisfied", false, "the care was delivered as agreed")
	fs.IntVar(&rating, "rating", -1, "optional rating 0-100")
	fs.StringVar(&evidence, "evidence", "", "optional 0x-prefixed evidence digest")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	params := map[string]interface{}{"bookingId": id, "satisfied": satisfied}
	if rating >= 0 {
		if rating > 100 {
			return printError(stderr, "--rating must be between 0 and 100")
		}
		params["rating"] = rating
	}
	if evidence != "" {
		if err := validateDigest(evidence); err != nil {
			return printError(stderr, "--evidence "+err.Error())
		}
		params["evidenceHash"] = evidence
	}
	return invoke(stdout, stderr, "verification_initiate", params, true)
}

func runVerifyEvidence(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify evidence", stderr, verifyUsage)
	var (
		id          uint64
		digest      string
		description string
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.StringVar(&digest, "digest", "", "0x-prefixed evidence digest")
	fs.StringVar(&description, "description", "", "short description of the evidence")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	if err := validateDigest(digest); err != nil {
		return printError(stderr, "--digest "+err.Error())
	}
	return invoke(stdout, stderr, "verification_submitEvidence", map[string]interface{}{
		"bookingId":   id,
		"digest":      digest,
		"description": description,
	}, true)
}

func runVerifyEscalate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify escalate", stderr, verifyUsage)
	var id, fee uint64
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.Uint64Var(&fee, "fee", 0, "escalation fee in HOUR")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	if fee == 0 {
		return printError(stderr, "--fee must be positive")
	}
	return invoke(stdout, stderr, "verification_dispute", map[string]interface{}{"bookingId": id, "fee": fee}, true)
}

func runVerifyResolve(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify resolve", stderr, verifyUsage)
	var (
		id    uint64
		favor bool
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.BoolVar(&favor, "favor-requester", false, "rule in favour of the requester")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	return invoke(stdout, stderr, "verification_resolve", map[string]interface{}{"bookingId": id, "inFavorOfRequester": favor}, true)
}

func runVerifyConfirm(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify confirm", stderr, verifyUsage)
	var (
		id     uint64
		agrees bool
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.BoolVar(&agrees, "agrees", true, "agree with the declared outcome")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	return invoke(stdout, stderr, "verification_confirm", map[string]interface{}{"bookingId": id, "agrees": agrees}, true)
}

func runVerifyRevoke(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("verify revoke", stderr, verifyUsage)
	var (
		id     uint64
		reason string
	)
	fs.Uint64Var(&id, "id", 0, "booking id")
	fs.StringVar(&reason, "reason", "", "revocation reason")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if id == 0 {
		return printError(stderr, "--id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return printError(stderr, "--reason is required")
	}
	return invoke(stdout, stderr, "verification_revoke", map[string]interface{}{"bookingId": id, "reason": reason}, true)
}
