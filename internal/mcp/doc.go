// Package mcp exposes the filter executor as Model Context Protocol tools.
//
// Tools are kept in a registry of their own so they can be invoked directly
// with CallTool, and are handed to the official MCP SDK server when served
// over a transport such as stdio.
package mcp
