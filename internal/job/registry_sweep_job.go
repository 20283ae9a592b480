package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/locshare/internal/registry"
)

// RegistrySweepJob proactively drops expired share records so entries nobody
// re-reads do not accumulate. Lookups stay correct without it; this is only
// memory hygiene.
type RegistrySweepJob struct {
	reg *registry.Registry
}

func NewRegistrySweepJob(reg *registry.Registry) *RegistrySweepJob {
	return &RegistrySweepJob{reg: reg}
}

func (j *RegistrySweepJob) Name() string {
	return "registry_sweep"
}

func (j *RegistrySweepJob) Run(ctx context.Context) error {
	removed := j.reg.SweepExpired()
	if removed > 0 {
		logutil.GetLogger(ctx).Info("swept expired shares",
			zap.Int("removed", removed),
			zap.Int("remaining", j.reg.Len()),
		)
	}
	return nil
}
