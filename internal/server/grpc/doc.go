// Package grpcserver serves the Publisher and Subscriber services over
// gRPC with the JSON codec, translating service errors into status codes
// at the boundary.
package grpcserver
