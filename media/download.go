package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/makar2108/telegram-bot/fetch"
)

// MaxFileSize is the delivery channel's hard cap: Telegram rejects files
// above 50 MiB.
const MaxFileSize = 50 * 1024 * 1024

const downloadChunkSize = 8192

// Download error kinds. Callers match with errors.Is / errors.As.
var (
	ErrAuthRequired = errors.New("authorization required to download this content")
	ErrForbidden    = errors.New("access to this content is forbidden")
	ErrNotFound     = errors.New("content not found")
	ErrTooLarge     = errors.New("file exceeds the 50 MiB limit")
	ErrTimeout      = errors.New("timed out while downloading")
	ErrNetwork      = errors.New("network error while downloading")
)

// StatusError reports a non-200 response that maps to no specific kind.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d while downloading", e.Status)
}

// Asset is one downloaded media file, fully in memory and always at or under
// MaxFileSize.
type Asset struct {
	Bytes     []byte
	SourceURL string
}

// Download streams a URL into memory with the given header profile. The size
// cap is enforced twice: against a declared content-length before reading the
// body, and against accumulated bytes during the chunked read so an undeclared
// oversized body is abandoned mid-stream, never materialized in full.
func Download(ctx context.Context, client *fetch.Client, rawURL string, profile fetch.Profile) (*Asset, error) {
	log.Printf("[Media] downloading: %s", rawURL)

	resp, err := client.Get(ctx, rawURL, profile)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	if resp.ContentLength > MaxFileSize {
		sizeMB := float64(resp.ContentLength) / (1024 * 1024)
		log.Printf("[Media] file too large: %.2f MB", sizeMB)
		return nil, fmt.Errorf("%w: declared %.2f MB", ErrTooLarge, sizeMB)
	}

	var content []byte
	chunk := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			content = append(content, chunk[:n]...)
			if len(content) > MaxFileSize {
				log.Printf("[Media] file exceeded the cap mid-stream: %.2f MB so far",
					float64(len(content))/(1024*1024))
				return nil, ErrTooLarge
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if isTimeout(readErr) {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, readErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrNetwork, readErr)
		}
	}

	log.Printf("[Media] downloaded %.2f KB from %s", float64(len(content))/1024, rawURL)
	return &Asset{Bytes: content, SourceURL: rawURL}, nil
}

// statusError maps a non-200 response to its error kind, sniffing a bounded
// body prefix for login walls.
func statusError(resp *http.Response) error {
	bodyPrefix, _ := io.ReadAll(io.LimitReader(resp.Body, downloadChunkSize))
	lowerBody := strings.ToLower(string(bodyPrefix))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || strings.Contains(lowerBody, "login"):
		return ErrAuthRequired
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Status: resp.StatusCode}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
