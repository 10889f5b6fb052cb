package ledger

import "context"

// MultiPublisher fans one ledger event out to several publishers. Each
// publisher is attempted; the first error is returned after all ran.
type MultiPublisher []Publisher

// PublishLedgerEvent implements Publisher.
func (m MultiPublisher) PublishLedgerEvent(ctx context.Context, ev LedgerEvent) error {
	var first error
	for _, p := range m {
		if err := p.PublishLedgerEvent(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
