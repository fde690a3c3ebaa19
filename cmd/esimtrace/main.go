// Command esimtrace decodes eSIM (SGP.22 ES10) traffic captured between an
// LPA and an eUICC.
//
// Usage:
//
//	esimtrace <command> [flags] <args>
//
// Commands:
//
//	decode   Decode one BER-TLV payload
//	apdu     Decode a command APDU and its response
//	batch    Decode every payload of a capture file
//	segment  Cut a payload into STORE DATA commands
//	tags     List the tags that have a dissector
//
// Examples:
//
//	# Decode a profile list sent back by the eUICC
//	esimtrace decode -dir eUICC->LPA BF2D0AA008E3065A0498103254
//
//	# Decode a STORE DATA exchange
//	esimtrace apdu -cmd 80E2910003BF2E00 -rsp BF2E0280009000
//
//	# Decode a capture file as YAML
//	esimtrace batch -format yaml session.txt
//
//	# Replay a payload as STORE DATA blocks of 64 bytes on channel 1
//	esimtrace segment -channel 1 -block 64 BF2D00 | esimtrace batch -
package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `esimtrace - eSIM (SGP.22) Trace Decoder

Usage:
  esimtrace <command> [flags] <args>

Commands:
  decode   Decode one BER-TLV payload (hex, or - for stdin)
  apdu     Decode a command APDU and its response
  batch    Decode every payload of a capture file
  segment  Cut a payload into STORE DATA commands
  tags     List the tags that have a dissector

Use "esimtrace <command> -help" for more information about a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	cmd, rest := args[0], args[1:]
	var err error

	switch cmd {
	case "decode":
		err = runDecode(rest, stdin, stdout, stderr)
	case "apdu":
		err = runAPDU(rest, stdout, stderr)
	case "batch":
		err = runBatch(rest, stdin, stdout, stderr)
	case "segment":
		err = runSegment(rest, stdin, stdout, stderr)
	case "tags":
		err = runTags(rest, stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
