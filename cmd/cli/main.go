package main

import (
	"fmt"
	"os"

	"github.com/DeBrosOfficial/opendrop/pkg/cli"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if len(os.Args) < 2 {
		showHelp()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "version":
		fmt.Printf("opendrop %s", version)
		if commit != "" {
			fmt.Printf(" (commit %s)", commit)
		}
		if date != "" {
			fmt.Printf(" built %s", date)
		}
		fmt.Println()
		return

	// Discovery
	case "find":
		cli.HandleFindCommand(args)
	case "peers":
		cli.HandlePeersCommand(args)

	// Transfer
	case "send":
		cli.HandleSendCommand(args)
	case "receive":
		cli.HandleReceiveCommand(args)

	// Raw protocol requests against an explicit address
	case "discover", "ask", "upload", "askupload":
		cli.HandleRawCommand(command, args)

	// Help
	case "help", "--help", "-h":
		showHelp()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		showHelp()
		os.Exit(2)
	}
}

func showHelp() {
	fmt.Printf("opendrop - proximity file sharing client\n\n")
	fmt.Printf("Usage: opendrop <command> [flags]\n\n")

	fmt.Printf("Discovery:\n")
	fmt.Printf("  find [--duration 30s]           - Look for receivers and save the discovery report\n")
	fmt.Printf("  peers [--format table|json]     - List receivers of the last discovery report\n\n")

	fmt.Printf("Transfer:\n")
	fmt.Printf("  send -f <file> -r <receiver>    - Send a file; receiver is an index, ID or name\n")
	fmt.Printf("  receive                         - Not supported by this client\n\n")

	fmt.Printf("Raw requests:\n")
	fmt.Printf("  discover -A <address> [-P port] - Send a discover request\n")
	fmt.Printf("  ask -A <address> -f <file>      - Send an ask request\n")
	fmt.Printf("  upload -A <address> -f <file>   - Upload a file (or -R <cpio> for a prepared archive)\n")
	fmt.Printf("  askupload -A <address> -f <file> - Ask, then upload\n\n")

	fmt.Printf("Common flags:\n")
	fmt.Printf("  --config <path>                 - Config file (default ~/.opendrop/config.yaml)\n")
	fmt.Printf("  -n, --name / -m, --model        - Identity shown to receivers\n")
	fmt.Printf("  -i, --interface / -I            - AWDL interface (default awdl0) / no interface\n")
	fmt.Printf("  -J, --payload / -B, --binpayload - Custom payload for ask and discover\n")
	fmt.Printf("  -d, --debug                     - Debug output\n\n")

	fmt.Printf("Examples:\n")
	fmt.Printf("  opendrop find --duration 20s\n")
	fmt.Printf("  opendrop send -f photo.jpg -r 0\n")
	fmt.Printf("  opendrop send -f photo.jpg -r Bob\n")
}
