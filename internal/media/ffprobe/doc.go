// Package ffprobe shells out to ffprobe and decodes the bits of its JSON
// report that audio extraction needs: how many audio streams a container
// carries and how long it runs.
package ffprobe
