package routing

import "errors"

var (
	// ErrEmptyGraph is returned when a lookup runs against a graph with no nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrNodeNotFound is returned when a search endpoint is not a graph node.
	ErrNodeNotFound = errors.New("node not in graph")

	// ErrNoPath is returned when the search exhausts its frontier without
	// reaching the target.
	ErrNoPath = errors.New("no path found")

	// ErrNoCentroid is returned when an endpoint feature has no usable area
	// geometry.
	ErrNoCentroid = errors.New("could not compute centroid")

	// ErrNoNearestNode is returned when an endpoint cannot be attached to the
	// graph.
	ErrNoNearestNode = errors.New("could not find nearest node")

	// ErrMissingEndpoint is returned when a route request omits a location.
	ErrMissingEndpoint = errors.New("start and destination are required")

	// ErrSameEndpoint is returned when start and destination are the same location.
	ErrSameEndpoint = errors.New("start and destination must be different locations")

	// ErrUnknownLocation is returned when a requested location id does not exist.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrNoGraph is returned when no campus data has been loaded yet.
	ErrNoGraph = errors.New("routing graph not ready")
)
