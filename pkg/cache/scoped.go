package cache

// ScopedKeyer prefixes every key of an inner Keyer. The serve command uses
// it so a shared Redis or MongoDB cache keeps server entries apart from
// the ones written by the CLI.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
