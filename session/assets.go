package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AssetLoader fetches a lecture document and returns it base64 encoded.
type AssetLoader interface {
	Load(ctx context.Context, ref string) (string, error)
}

// Assets reads http(s) references over the network and everything else from Dir.
type Assets struct {
	Dir        string
	HTTPClient *http.Client
}

func (a Assets) Load(ctx context.Context, ref string) (string, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		data, err = a.fetch(ctx, ref)
	} else {
		data, err = os.ReadFile(filepath.Join(a.Dir, filepath.FromSlash(strings.TrimPrefix(ref, "/"))))
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", ref, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (a Assets) fetch(ctx context.Context, url string) ([]byte, error) {
	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
