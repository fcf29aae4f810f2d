// Package snapshot persists serialized canvas content.
//
// A Snapshot is the HTML of a canvas subtree at one point in time, tagged
// with the sequence number of the last adapter call it reflects. Snapshots
// go to a DiskStore or to an S3 bucket through S3Store; FromConfig picks one
// from the snapshot section of retain.json.
package snapshot
