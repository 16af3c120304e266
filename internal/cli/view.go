package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"

	"github.com/caurus/cronto/render"
)

// viewBarcode shows a barcode to the operator. With a viewer configured
// it renders the barcode to a temporary SVG, opens it in the viewer, and
// waits for the operator to confirm the client scanned it; otherwise it
// prints the barcode's compact text form for another tool to render.
func viewBarcode(modules []byte, viewer string) error {
	if viewer == "" {
		fmt.Printf("Barcode: %s\n", render.Serialize(modules))
		return nil
	}

	f, err := os.CreateTemp("", "caurus-*.svg")
	if err != nil {
		return fmt.Errorf("creating temporary SVG: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := render.ToSVG(f, modules, true); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := exec.Command(viewer, path).Run(); err != nil {
		return fmt.Errorf("running viewer %s: %w", viewer, err)
	}
	fmt.Print("Press enter to continue after you scanned the barcode...")
	bufio.NewScanner(os.Stdin).Scan()
	fmt.Println()
	return nil
}

// promptCode reads a code of exactly `length` decimal digits from stdin,
// re-prompting on malformed input. An empty line aborts and returns "".
func promptCode(length int) string {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Code: ")
		if !scanner.Scan() {
			return ""
		}
		code := scanner.Text()
		if code == "" {
			return ""
		}
		if len(code) == length && allDigits(code) {
			return code
		}
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
