package spritz

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

// TestReadWrite ensures that the code can decrypt bytes that it just
// encrypted, across random passwords, names, and payload sizes.
func TestReadWrite(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for count := 0; count < 20; count++ {
		// random password
		pwBytes := make([]byte, 15)
		rng.Read(pwBytes)
		pw := string(pwBytes)

		// random orig name
		origName := ""
		if rng.Intn(10) < 5 {
			origNameBytes := make([]byte, 10)
			rng.Read(origNameBytes)
			origName = string(origNameBytes)
		}

		// random data
		datalen := rng.Intn(2048) + 1
		data := make([]byte, datalen)
		rng.Read(data)
		inbuf := bytes.NewBuffer(data)

		// encrypt!
		var encbuf bytes.Buffer
		wtr, err := WrapWriter(&encbuf, pw, origName)
		if err != nil {
			t.Fatalf("Error wrapping writer: %v", err)
		}

		if _, err = io.Copy(wtr, inbuf); err != nil {
			t.Fatalf("Error encrypting: %v", err)
		}

		// decrypt!
		var decbuf bytes.Buffer
		rdr, decn, err := WrapReader(&encbuf, pw)
		if err != nil {
			t.Fatalf("Error wrapping for decryption: %v", err)
		}
		if decn != origName {
			t.Fatalf("Orig names don't match, got <%s> instead of <%s>", decn, origName)
		}

		if _, err = io.Copy(&decbuf, rdr); err != nil {
			t.Fatalf("Error decrypting: %v", err)
		}

		if !bytes.Equal(decbuf.Bytes(), data) {
			t.Fatalf("Decrypted data does not match encrypted data!")
		}
	}
}

// TestWrongPassword makes sure a bad password is caught by the header
// check instead of yielding garbage plaintext.
func TestWrongPassword(t *testing.T) {
	var encbuf bytes.Buffer
	wtr, err := WrapWriter(&encbuf, "right horse", "note.txt")
	assert.NilError(t, err)
	_, err = wtr.Write([]byte("battery staple"))
	assert.NilError(t, err)

	_, _, err = WrapReader(&encbuf, "wrong horse")
	assert.Check(t, err != nil)
}

// TestRePasswd re-keys an encrypted file in place and verifies the new
// password opens it while the old one no longer does.
func TestRePasswd(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "secret.dat")
	payload := []byte("the payload survives a password change untouched")

	fl, err := os.Create(fn)
	assert.NilError(t, err)
	wtr, err := WrapWriter(fl, "old pass", "orig.txt")
	assert.NilError(t, err)
	_, err = wtr.Write(payload)
	assert.NilError(t, err)
	assert.NilError(t, fl.Close())

	assert.NilError(t, RePasswd("old pass", "new pass", fn))

	fl, err = os.Open(fn)
	assert.NilError(t, err)
	defer fl.Close()

	rdr, name, err := WrapReader(fl, "new pass")
	assert.NilError(t, err)
	assert.Equal(t, name, "orig.txt")

	got, err := io.ReadAll(rdr)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, payload)

	_, err = fl.Seek(0, io.SeekStart)
	assert.NilError(t, err)
	_, _, err = WrapReader(fl, "old pass")
	assert.Check(t, err != nil)
}

// BenchmarkKeygen benchmarks the key generation function, to make sure
// that it is slow enough to deter brute-force attack.
func BenchmarkKeygen(b *testing.B) {
	examplePW := "12345678901234"   // 14-char "good" password
	exampleIV := []byte{4, 3, 2, 1} // a "random" IV

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		exampleIV = keygen(examplePW, exampleIV[:4], 20000+int(exampleIV[3]))
	}
}
