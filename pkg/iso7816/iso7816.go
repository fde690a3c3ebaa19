/*
Package iso7816 decodes the APDU layer of captured smart card traffic according to ISO/IEC 7816-4,
with the GlobalPlatform and ETSI extensions used by eUICCs.

# Fundamentals

The communication with a card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

eSIM management messages travel in the body of STORE DATA commands ('80E2...' or '81E2...'
depending on the logical channel). The response data carries the matching eSIM response.

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - Other: Various error conditions.

# Usage Example: Describing a captured exchange

	h := iso7816.ParseCommandHeader("80E2910003BF2E00")
	fmt.Println(h.Describe().Describe())

	tx, err := iso7816.NewTransaction("80E2910003BF2E00", "BF2E0280019000")
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(tx.Response.Status.Verbose())
*/
package iso7816
