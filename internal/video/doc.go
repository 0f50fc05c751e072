// Package video records an attempt as a sequence of PNG frames and encodes
// them into an mp4 with an external ffmpeg binary.
//
// The Recorder port has three implementations: FrameRecorder (the real one),
// NoopRecorder (video not configured), and test fakes. Service sits between a
// Recorder and the attempt controller and turns every recorder failure into a
// VideoError completion.
package video
