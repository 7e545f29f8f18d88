package tags

// DryRun wraps a so that Persist never reaches the file. Reads keep seeing
// the values set in memory, so a reconciliation against a dry-run adapter
// reports the same outcome a real run would.
func DryRun(a Adapter) Adapter {
	return dryRun{Adapter: a}
}

type dryRun struct {
	Adapter
}

func (dryRun) Persist() error { return nil }
