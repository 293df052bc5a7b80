//go:build ecsdebug

package ecs

// debugChecks enables the written-slot guard of ColumnBatch.SetLen.
const debugChecks = true
