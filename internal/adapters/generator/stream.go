package generator

import "strings"

// Frame constants for the line-oriented event stream handed to stream
// consumers. Content newlines are escaped per frame so one frame is
// always exactly one "data:" line.
const (
	framePrefix  = "data: "
	frameSuffix  = "\n\n"
	newlineToken = "__NEWLINE__"
	errorTag     = "ERROR: "
)

// EncodeFrame encodes one content fragment as a stream frame.
func EncodeFrame(content string) string {
	return framePrefix + strings.ReplaceAll(content, "\n", newlineToken) + frameSuffix
}

// EncodeErrorFrame encodes a terminal error frame. The stream convention
// is to report failure in-band instead of breaking the stream.
func EncodeErrorFrame(err error) string {
	return EncodeFrame(errorTag + err.Error())
}

// DecodeFrame reverses EncodeFrame. isError reports whether the frame
// carries the in-band error tag; ok is false when the input is not a
// well-formed frame.
func DecodeFrame(frame string) (content string, isError, ok bool) {
	if !strings.HasPrefix(frame, framePrefix) || !strings.HasSuffix(frame, frameSuffix) {
		return "", false, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(frame, framePrefix), frameSuffix)
	body = strings.ReplaceAll(body, newlineToken, "\n")
	if strings.HasPrefix(body, errorTag) {
		return strings.TrimPrefix(body, errorTag), true, true
	}
	return body, false, true
}
