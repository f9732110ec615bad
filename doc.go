// Package highlights is the composition root for the highlights server.
//
// It connects the capture logic (pkg/core) with the storage adapter
// (pkg/adapters/fs): one markdown note per day, accumulating text captured from
// web pages under a "## Highlights" heading, with source links recorded once.
//
// Usage:
//
//	svc, err := highlights.New("~/notes",
//		highlights.WithLogger(logger),
//		highlights.WithLocation(time.Local),
//	)
//
//	res, err := svc.Capture(ctx, highlights.Capture{
//		Text:        "selected text",
//		URL:         "https://example.com/post",
//		IncludeLink: true,
//	})
package highlights
