package redux

import (
	"context"
	"fmt"
	"strconv"
)

// scanTerminalCursor starts a scan and, when returned by the store,
// ends it. There is no distinct "start" versus "done" value.
const scanTerminalCursor = "0"

// HScan iterates a hash's fields matching pattern and returns the
// fully merged field-to-value mapping. Values are the raw stored
// strings; no decoding happens on scan paths.
//
// Pages are merged defensively: should the store deliver a field
// twice, the later page wins. Memory grows with the number of matching
// fields; for very large hashes prefer HScanEach.
func (c *Client) HScan(ctx context.Context, hash, pattern string) (map[string]string, error) {
	merged := make(map[string]string)
	err := c.scanPages(ctx, hash, pattern, func(page map[string]string) error {
		for field, value := range page {
			merged[field] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// HScanEach iterates like HScan but delivers each page to fn as it
// arrives instead of accumulating, keeping memory bounded by the
// store's page size. fn runs synchronously in scan order with only
// that page's mapping; pages are not merged, so a field mutated during
// the scan can appear in more than one page.
//
// An error from fn aborts the scan and is returned unchanged.
func (c *Client) HScanEach(ctx context.Context, hash, pattern string, fn func(page map[string]string) error) error {
	if fn == nil {
		return fmt.Errorf("%w: nil scan callback", ErrInvalidConfig)
	}
	return c.scanPages(ctx, hash, pattern, fn)
}

// scanPages is the core loop both scan modes share: issue HSCAN with
// the current cursor, regroup the flat field/value list into a page,
// hand it to fn, repeat until the store returns the terminal cursor.
// The page budget turns a store that never terminates into a
// *ScanError instead of an unbounded loop.
func (c *Client) scanPages(ctx context.Context, hash, pattern string, fn func(page map[string]string) error) error {
	cursor := scanTerminalCursor
	for pages := 0; ; pages++ {
		if pages >= c.scanBudget {
			if c.metrics != nil {
				c.metrics.RecordError("scan")
			}
			return &ScanError{Hash: hash, Pattern: pattern, Pages: pages, Err: ErrScanNotConverged}
		}
		if err := ctx.Err(); err != nil {
			return &ScanError{Hash: hash, Pattern: pattern, Pages: pages, Err: err}
		}

		tokens := []string{"HSCAN", hash, cursor, "MATCH", pattern}
		if c.scanCount > 0 {
			tokens = append(tokens, "COUNT", strconv.Itoa(c.scanCount))
		}
		reply, err := c.do(ctx, tokens...)
		if err != nil {
			return err
		}

		if len(reply.Array) != 2 {
			return fmt.Errorf("malformed scan reply for %s: %s", hash, reply.String())
		}
		cursor = reply.Array[0].Text()
		flat, err := reply.Array[1].Strings()
		if err != nil {
			return fmt.Errorf("malformed scan reply for %s: %w", hash, err)
		}
		if len(flat)%2 != 0 {
			return fmt.Errorf("malformed scan reply for %s: odd element count %d", hash, len(flat))
		}

		if len(flat) > 0 {
			page := make(map[string]string, len(flat)/2)
			for i := 0; i < len(flat); i += 2 {
				page[flat[i]] = flat[i+1]
			}
			if err := fn(page); err != nil {
				return err
			}
		}

		if cursor == scanTerminalCursor {
			if c.metrics != nil {
				c.metrics.RecordScanPages(int64(pages + 1))
			}
			return nil
		}
	}
}
