package azureblob

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// credentials holds the parsed pieces of a storage connection string.
type credentials struct {
	accountName string
	accountKey  []byte

	// endpoint is the blob service base URL without a trailing
	// slash, e.g. https://acct.blob.core.windows.net.
	endpoint string
}

// parseConnectionString splits the semicolon-delimited key=value
// connection string issued by the storage account. An explicit
// BlobEndpoint wins over the endpoint derived from the account name
// and suffix, which also covers emulator setups.
func parseConnectionString(connString string) (*credentials, error) {
	pairs := make(map[string]string)
	for _, part := range strings.Split(connString, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("malformed connection string segment %q", key)
		}
		pairs[key] = value
	}

	creds := &credentials{accountName: pairs["AccountName"]}
	if creds.accountName == "" {
		return nil, fmt.Errorf("connection string missing AccountName")
	}

	rawKey := pairs["AccountKey"]
	if rawKey == "" {
		return nil, fmt.Errorf("connection string missing AccountKey")
	}
	key, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("decoding AccountKey: %w", err)
	}
	creds.accountKey = key

	if endpoint := pairs["BlobEndpoint"]; endpoint != "" {
		creds.endpoint = strings.TrimSuffix(endpoint, "/")
		return creds, nil
	}

	protocol := pairs["DefaultEndpointsProtocol"]
	if protocol == "" {
		protocol = "https"
	}
	suffix := pairs["EndpointSuffix"]
	if suffix == "" {
		suffix = "core.windows.net"
	}
	creds.endpoint = fmt.Sprintf("%s://%s.blob.%s", protocol, creds.accountName, suffix)
	return creds, nil
}
