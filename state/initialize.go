package state

import (
	"time"

	"go.uber.org/zap"

	"textpdf/common"
)

// newLocalEnv creates environment usable before configuration is loaded.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:    zap.NewNop(),
		Format: common.OutputFmtPdf,
		start:  time.Now(),
	}
}
