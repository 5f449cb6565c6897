package keybuilder

import (
	"fmt"
	"github.com/google/uuid"
)

const (
	Redis    string = "redis"
	BatchJob string = "batch_job"
)

func RedisBatchJobKeyBuild(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", Redis, BatchJob, id)
}
