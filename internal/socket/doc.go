// Package socket locates and loads socket documents: per-agent JSON files
// listing the capability records extracted from a Copilot Notebook. A socket
// document is a JSON array whose elements each carry at least a "name" key
// identifying the capability kind.
package socket
