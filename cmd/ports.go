package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"termapp/pkg/serial"
)

var (
	portsDetails bool
	portsFormat  string
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports the shell can run on",
	Long: `List the serial ports on this system. Any of them can carry the shell
with 'termapp run --source serial -p <port>'.`,
	Aliases: []string{"list"},
	Args:    cobra.NoArgs,
	RunE:    runPorts,
}

func init() {
	portsCmd.Flags().BoolVarP(&portsDetails, "details", "d", false, "show USB details")
	portsCmd.Flags().StringVarP(&portsFormat, "format", "f", "table", "output format (table, csv, json)")
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := serial.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("error listing ports: %w", err)
	}
	return printPorts(cmd.OutOrStdout(), ports, portsFormat, portsDetails)
}

func printPorts(w io.Writer, ports []serial.PortInfo, format string, details bool) error {
	switch format {
	case "json":
		var v any = ports
		if !details {
			names := make([]string, 0, len(ports))
			for _, p := range ports {
				names = append(names, p.Name)
			}
			v = names
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode ports: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "csv":
		if !details {
			fmt.Fprintln(w, "port")
			for _, p := range ports {
				fmt.Fprintln(w, p.Name)
			}
			return nil
		}
		fmt.Fprintln(w, "port,is_usb,vid,pid,product,serial_number")
		for _, p := range ports {
			fmt.Fprintf(w, "%s,%t,%s,%s,%s,%s\n", p.Name, p.IsUSB, p.VID, p.PID, p.Product, p.SerialNumber)
		}
		return nil

	case "table", "":
		if len(ports) == 0 {
			fmt.Fprintln(w, "No serial ports found.")
			return nil
		}
		fmt.Fprintf(w, "Found %d serial port(s):\n", len(ports))
		for _, p := range ports {
			fmt.Fprintf(w, "  %s", p.Name)
			if details && p.IsUSB {
				fmt.Fprintf(w, " [USB] VID:%s PID:%s", p.VID, p.PID)
				if p.Product != "" {
					fmt.Fprintf(w, " - %s", p.Product)
				}
				if p.SerialNumber != "" {
					fmt.Fprintf(w, " (SN: %s)", p.SerialNumber)
				}
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "\nUse 'termapp run --source serial -p <port>' to run the shell on a port.")
		return nil

	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
