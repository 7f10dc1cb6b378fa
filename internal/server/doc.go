// Package server implements the MCP (Model Context Protocol) server that
// exposes Poisson blending as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Color Operations:
//   - image_sample_color: Get color at pixel in every blend color model
//   - image_sample_colors_multi: Sample multiple points
//
// Placement:
//   - image_outline: Draw the insertion polygon on the base image
//
// Compositing:
//   - image_blend: Poisson blend an overlay region into a base image
//   - image_paste: Copy the same region without blending
//
// # Image Caching
//
// Images are cached by expanded path and reused across tool calls, so a
// series of blends against the same base decodes it once. Saving a result
// evicts its path from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
