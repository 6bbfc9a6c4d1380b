package pipeline

import (
	"github.com/matzehuels/bubblerow/pkg/entity"
)

// Load returns the entity set named by opts: inline entities first, then
// the dataset file, then the built-in sample.
func Load(opts Options) ([]entity.Entity, error) {
	switch {
	case len(opts.Entities) > 0:
		if err := entity.Validate(opts.Entities); err != nil {
			return nil, err
		}
		return opts.Entities, nil
	case opts.DataPath != "":
		return entity.Load(opts.DataPath)
	default:
		return entity.Sample(), nil
	}
}
