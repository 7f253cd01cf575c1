// Package lint reports configuration anomalies in form documents.
//
// The engine never rejects a FormConfig: unknown types degrade to text,
// dangling conditions fail open and invalid patterns are skipped. Check lists
// those silent fallbacks so authors can fix them before users hit them.
package lint
