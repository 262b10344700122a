package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

var client = http.Client{
	Timeout: 10 * time.Second,
}

// call sends the request to the node and decodes the response into out
// when out is not nil.
func call(method string, host string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, host+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling node: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields,omitempty"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned status %d", resp.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("node returned status %d: %s: %v", resp.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("node returned status %d: %s", resp.StatusCode, er.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// resolveAddress returns the address passed on the command line or the
// address of the configured key file.
func resolveAddress(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return "", fmt.Errorf("loading key: %w", err)
	}

	return signature.PublicKeyToAddress(privateKey.PublicKey), nil
}

// printJSON writes the value to stdout in indented form.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
