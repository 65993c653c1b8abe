// Package http provides the HTTP client used to fetch generated images.
//
// The Client in this package handles:
//   - A fixed User-Agent header
//   - Timeout handling
//   - Treating every non-200 response as an error
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	data, err := client.DownloadBytes(ctx, "https://example.com/image.jpg")
//	if err != nil {
//	    // *model.NetworkError
//	}
package http
