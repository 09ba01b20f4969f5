package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-radius/raddecode/internal/dictionary"
	"github.com/go-radius/raddecode/internal/radius"
)

// errShortPacket indicates the input is too small to contain a RADIUS
// header.
var errShortPacket = errors.New("packet shorter than the 20-byte RADIUS header")

func decodeCmd() *cobra.Command {
	var (
		filePath  string
		hexInput  string
		attrsOnly bool
		zeros     bool
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode the attributes of a RADIUS packet",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := readPacketInput(filePath, hexInput)
			if err != nil {
				return err
			}

			dict, err := dictionary.Load(dictionaryPath)
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}

			var attrs, vector []byte
			if attrsOnly {
				attrs = raw
				vector = make([]byte, 16)
			} else {
				if len(raw) < 20 {
					return errShortPacket
				}
				vector = raw[4:20]
				attrs = raw[20:]
			}

			ctx := &radius.DecoderContext{
				Secret:              []byte(sharedSecret),
				Vector:              vector,
				TunnelPasswordZeros: zeros,
				Dict:                dict,
			}

			pairs, err := decodeAllPairs(ctx, attrs)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}

			out, err := formatPairs(pairs, outputFormat)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to a binary RADIUS packet (mutually exclusive with a hex argument)")
	cmd.Flags().StringVar(&hexInput, "hex", "", "hex-encoded RADIUS packet")
	cmd.Flags().BoolVar(&attrsOnly, "attrs-only", false, "input is a bare attribute stream with no 20-byte RADIUS header")
	cmd.Flags().BoolVar(&zeros, "tunnel-password-zeros", false, "require Tunnel-Password padding bytes to be zero")

	return cmd
}

// readPacketInput resolves the packet bytes from either --file or --hex,
// requiring exactly one to be set.
func readPacketInput(filePath, hexInput string) ([]byte, error) {
	switch {
	case filePath != "" && hexInput != "":
		return nil, errors.New("only one of --file or --hex may be given")
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		return data, nil
	case hexInput != "":
		data, err := hex.DecodeString(hexInput)
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("one of --file or --hex is required")
	}
}

// decodeAllPairs walks the attribute stream, decoding one attribute at a
// time via radius.DecodePair until the stream is exhausted.
func decodeAllPairs(ctx *radius.DecoderContext, attrs []byte) ([]radius.Pair, error) {
	var out []radius.Pair
	for len(attrs) > 0 {
		cursor, consumed, err := radius.DecodePair(ctx, attrs)
		if err != nil {
			return out, err
		}
		out = append(out, cursor.Pairs()...)
		if consumed <= 0 {
			return out, fmt.Errorf("decoder made no progress with %d bytes remaining", len(attrs))
		}
		attrs = attrs[consumed:]
	}
	return out, nil
}
