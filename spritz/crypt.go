package spritz

// The encrypted-file format layered over the stream cipher.  This is
// just one example of how the raw keystream can be turned into a file
// format: a header carrying an encrypted IV, a password-check token,
// and a random session key, followed by the payload encrypted against
// that session key.

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"os"

	"github.com/pkg/errors"
)

// xorInto combines src into dst in place.
func xorInto(dst, src []byte) {
	if len(dst) < len(src) {
		panic("Bad args to xorInto!")
	}
	for idx, v := range src {
		dst[idx] ^= v
	}
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// readHeader reads enough of the encrypted stream to recover the
// session key, verifying the password along the way.
func readHeader(src io.Reader, pw string) (realKey []byte, err error) {
	iv := make([]byte, 4)
	if _, err = io.ReadFull(src, iv); err != nil {
		return nil, errors.Wrap(err, "reading IV")
	}

	// Stage 1... the IV is encrypted against the hashed pw...
	tmp32 := Sum(32, []byte(pw))
	xorInto(iv, tmp32) // decrypt IV

	// Stage 2... generate a key from the pw + IV...
	key := keygen(pw, iv, 20000+int(iv[3]))
	crypto := new(state)
	initialize(crypto)
	absorbMany(crypto, key)

	// Stage 3... check the password...
	rdr := &cipher.StreamReader{S: crypto, R: src}

	rbytes := make([]byte, 4)
	if _, err = io.ReadFull(rdr, rbytes); err != nil {
		return nil, errors.Wrap(err, "reading check token")
	}

	// skip the number of stream bytes equal to rbytes[3]
	if crypto.a > 0 {
		shuffle(crypto)
	}
	for skip := 0; skip < int(rbytes[3]); skip++ {
		drip(crypto)
	}

	// decrypt the hash of rbytes
	remaining := make([]byte, 4)
	if _, err = io.ReadFull(rdr, remaining); err != nil {
		return nil, errors.Wrap(err, "reading check hash")
	}

	if !bytes.Equal(remaining, Sum(32, rbytes)) {
		return nil, errors.New("bad password or corrupted file")
	}

	// Stage 4... get the real key
	realKey = make([]byte, 64)
	if _, err = io.ReadFull(rdr, realKey); err != nil {
		return nil, errors.Wrap(err, "reading session key")
	}

	return realKey, nil
}

func writeHeader(sink io.Writer, pw string, realKey []byte) error {
	var iv = make([]byte, 4)
	var err1 error
	if _, err1 = rand.Read(iv); err1 != nil {
		return errors.Wrap(err1, "generating IV")
	}

	encIV := Sum(32, []byte(pw))
	xorInto(encIV, iv)
	if _, err1 = sink.Write(encIV); err1 != nil { // the manually-encrypted IV
		return errors.Wrap(err1, "writing IV")
	}

	key := keygen(pw, iv, 20000+int(iv[3]))
	crypto := new(state)
	initialize(crypto)
	absorbMany(crypto, key)

	// let the writer encrypt everything from here on out..
	writer := &cipher.StreamWriter{S: crypto, W: sink}

	var rbytes = make([]byte, 4)
	if _, err1 = rand.Read(rbytes); err1 != nil {
		return errors.Wrap(err1, "generating check token")
	}

	lastbyte := int(rbytes[3])
	var rbhash = Sum(32, rbytes)

	// write rbytes, then skip lastbyte stream bytes, then
	// write the hashed rbytes and the session key
	_, err1 = writer.Write(rbytes)

	if crypto.a > 0 {
		shuffle(crypto)
	}
	for skip := 0; skip < lastbyte; skip++ {
		drip(crypto)
	}

	_, err2 := writer.Write(rbhash)
	_, err3 := writer.Write(realKey)

	return errors.Wrap(firstErr(err1, err2, err3), "writing encryption header")
}

// WrapReader wraps an io.Reader with a decrypting stream, using an
// IV/Password, a check that the password appears correct, and an
// optional stored filename of the encrypted data.  All of this is in a
// format that agrees with the output of WrapWriter.
func WrapReader(src io.Reader, pw string) (rdr io.Reader, fn string, err error) {
	var realKey []byte
	realKey, err = readHeader(src, pw)
	if err != nil {
		return
	}
	crypto := new(state)
	initialize(crypto)
	absorbMany(crypto, realKey)
	if crypto.a > 0 {
		shuffle(crypto)
	}

	// skip the number of stream bytes equal to realKey[3] + 2048
	for skip := 0; skip < (2048 + int(realKey[3])); skip++ {
		drip(crypto)
	}
	rdr = &cipher.StreamReader{S: crypto, R: src}

	// get the filename, if any, from the file:
	flen := make([]byte, 1)
	if _, err = io.ReadFull(rdr, flen); err != nil {
		err = errors.Wrap(err, "reading embedded filename")
		return
	}
	if flen[0] > 0 {
		decnBytes := make([]byte, flen[0])
		if _, err = io.ReadFull(rdr, decnBytes); err != nil {
			err = errors.Wrap(err, "reading embedded filename")
			return
		}
		fn = string(decnBytes)
	}

	return
}

// WrapWriter wraps a writer with an encrypting stream, using an
// IV/Password, data used to check that the password appears correct,
// and an optional stored original filename of the source data.  All of
// this is stored in a format that agrees with the expectations of
// WrapReader.
func WrapWriter(sink io.Writer, pw string, origfn string) (io.Writer, error) {
	var realKey = make([]byte, 64)
	var err1 error
	if _, err1 = rand.Read(realKey); err1 != nil {
		return nil, errors.Wrap(err1, "generating session key")
	}

	if err1 = writeHeader(sink, pw, realKey); err1 != nil {
		return nil, err1
	}

	crypto := new(state)
	initialize(crypto)
	absorbMany(crypto, realKey)
	if crypto.a > 0 {
		shuffle(crypto)
	}
	// skip the number of stream bytes equal to realKey[3] + 2048
	for skip := 0; skip < (2048 + int(realKey[3])); skip++ {
		drip(crypto)
	}
	writer := &cipher.StreamWriter{S: crypto, W: sink}

	var namebytes []byte
	namebytes = append(namebytes, byte(len(origfn)))
	namebytes = append(namebytes, []byte(origfn)...)
	_, err2 := writer.Write(namebytes)

	return writer, errors.Wrap(err2, "writing embedded filename")
}

// RePasswd changes the password on a given file, without re-encrypting
// the whole contents.
func RePasswd(oldpw, newpw, fn string) error {
	fl, err := os.OpenFile(fn, os.O_RDWR, 0666)
	if err != nil {
		return err
	}
	defer fl.Close()

	realKey, err := readHeader(fl, oldpw)
	if err != nil {
		return err
	}

	if _, err = fl.Seek(0, io.SeekStart); err != nil {
		return err
	}

	return writeHeader(fl, newpw, realKey)
}
