// Package charset infers the character encoding of byte buffers that arrive
// without a declared encoding and decodes them to UTF-8 text.
//
// Detection first honors a byte-order mark. Without one, every candidate
// encoding in a fixed order is decoded and the result is scored with
// heuristics (replacement characters, control characters, CJK ideographs,
// delimiter presence and readable-character ratio). The highest score wins;
// ties go to the candidate evaluated first.
//
//	res := charset.Detect(data)
//	fmt.Println(res.Charset, res.Text)
package charset
