// Command shelterbot finds animal shelters that need help in VK communities,
// stores the best appeal per shelter and serves them over a local API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
