// Package manifest materializes and revises Declarative Agent manifest
// folders. Materialization copies the template fileset for one agent and
// stamps identity and naming fields into the two JSON documents; revision
// merges the agent's socket capabilities into the materialized agent
// manifest, classifying each record as regular or experimental.
package manifest
