package ecs_test

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

// Wide carries an alignment larger than the other components.
type Wide struct {
	A, B int64
	C    [3]float64
}
