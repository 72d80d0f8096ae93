package scheduling

import "context"

// NopGateway discards everything. It keeps the scheduler wired when the real
// platform is unavailable; the domain records stay authoritative and
// notifications simply never fire.
type NopGateway struct{}

func (NopGateway) Submit(context.Context, string, Notification) error { return nil }
func (NopGateway) Cancel(context.Context, string) error               { return nil }
func (NopGateway) CancelBatch(context.Context, []string) error        { return nil }
func (NopGateway) RequestAuthorization(context.Context) (bool, error) { return false, nil }
