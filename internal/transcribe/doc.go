// Package transcribe turns an audio file into text.
//
// Audio is first normalised with ffmpeg (mono, 16 kHz, PCM) and sped up
// with a chain of atempo filters, which shortens transcription with little
// loss in accuracy. The result is handed to parakeet-mlx:
//
//	t := transcribe.New(settings, &command.ExecRunner{})
//	text, err := t.Transcribe(ctx, "audio.wav", "out/Title.txt", false)
//
// Failures are returned as *StageError naming the stage (preprocessing or
// transcribing), the command line and its stderr.
package transcribe
