// Package model defines workflow definitions: the immutable graphs of named
// steps and conditional edges the runtime executes. Definitions are built
// either programmatically through the builder API or loaded from declarative
// documents by service/dao/definition, validated once at registration and
// read-only thereafter.
package model
