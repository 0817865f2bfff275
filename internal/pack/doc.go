// Package pack archives materialized manifest folders into distributable
// zip packages and recovers identity fields from previously built packages
// for ID-preserving re-deploys.
package pack
