package cli

import (
	"encoding"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatCBOR prints the hex encoded cbor payload sent to the servers.
	OutputFormatCBOR OutputFormat = "cbor"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintPayload prints a payload, either as its json view or as its binary encoding.
func (p *Printer) PrintPayload(view interface{}, payload encoding.BinaryMarshaler) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(view)
	case OutputFormatCBOR:
		data, err := payload.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.writer, hex.EncodeToString(data))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
