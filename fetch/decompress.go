package fetch

import (
	"bytes"
	"compress/gzip"
	"io"
	"log"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly"
)

// DecompressBody returns the decompressed response body. Servers that ignore
// the client's Accept-Encoding negotiation sometimes hand back raw gzip or
// Brotli streams, so detection goes by magic bytes first and the header second.
func DecompressBody(body []byte, contentEncoding string) ([]byte, bool, error) {
	if len(body) == 0 {
		return body, false, nil
	}

	// gzip magic bytes
	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		return decompressed, true, nil
	}

	// Brotli has no magic bytes; trust the header, fall back to a sniff.
	if contentEncoding == "br" || (len(body) >= 1 && body[0] >= 0x80 && body[0] <= 0x8f) {
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			// Not Brotli after all, keep the original bytes.
			return body, false, nil
		}
		return decompressed, true, nil
	}

	return body, false, nil
}

// DecompressCollyResponse decompresses a Colly response body in place. Hook it
// into the collector's OnResponse callback.
func DecompressCollyResponse(r *colly.Response) (bool, error) {
	if r == nil || len(r.Body) == 0 {
		return false, nil
	}

	decompressed, wasCompressed, err := DecompressBody(r.Body, r.Headers.Get("Content-Encoding"))
	if err != nil {
		return false, err
	}
	if wasCompressed {
		log.Printf("[Fetch] ✓ Decompressed response: %d → %d bytes", len(r.Body), len(decompressed))
		r.Body = decompressed
	}
	return wasCompressed, nil
}
