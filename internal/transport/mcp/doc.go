// Package mcp exposes retrieval and catalog listings as Model Context
// Protocol tools over stdio, so synthesis agents can pull ranked passages
// without going through HTTP.
package mcp
