// Package watcher polls the zone rotation on a fixed cadence, logs every
// rotation and raises an alert once per window when a tracked zone becomes
// active. It works against the local engine or a remote zone-server.
package watcher
