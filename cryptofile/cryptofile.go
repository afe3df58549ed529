// Package cryptofile encrypts and decrypts whole files under a password.
//
// The on-disk format is a 4-byte magic, a KDF salt, a random stream header,
// and a sequence of authenticated chunks of at most 4096 plaintext bytes
// each. Every chunk carries a tag byte inside the sealed payload; the last
// chunk is tagged final, so truncation is always detectable.
package cryptofile

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const chunkSize = 4096

const (
	saltSize   = 32
	headerSize = 16
	keySize    = chacha20poly1305.KeySize
)

// Interactive Argon2id cost profile. Fixed: the same password and salt must
// always reproduce the same key.
const (
	kdfTime    = 2
	kdfMemory  = 64 * 1024 // KiB
	kdfThreads = 1
)

const (
	tagMessage byte = 0x00
	tagFinal   byte = 0x03
)

var magic = []byte{0xC1, 0x0A, 0x4B, 0xED}

var (
	// ErrNotEncrypted reports a file that does not carry the encryption
	// envelope: too small, or magic-less with an unreadable first chunk.
	ErrNotEncrypted = errors.New("file has not been encrypted")
	// ErrIncorrectPassword reports a chunk of a magic-bearing file that
	// failed authentication.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrDecryptionFailed reports a stream that ended before its final chunk.
	ErrDecryptionFailed = errors.New("decrypting file failed")
)

// sealedSize is the on-disk size of a full chunk: plaintext, tag byte, MAC.
const sealedSize = chunkSize + 1 + chacha20poly1305.Overhead

// Encrypt writes the encrypted form of plainPath to cipherPath.
func Encrypt(plainPath, cipherPath, password string) error {
	in, err := os.Open(plainPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(cipherPath)
	if err != nil {
		return err
	}
	defer out.Close()

	salt := make([]byte, saltSize)
	header := make([]byte, headerSize)
	for _, b := range [][]byte{salt, header} {
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("gathering randomness: %w", err)
		}
	}

	aead, err := chacha20poly1305.NewX(deriveKey(password, salt))
	if err != nil {
		return err
	}

	for _, b := range [][]byte{magic, salt, header} {
		if _, err := out.Write(b); err != nil {
			return err
		}
	}

	info, err := in.Stat()
	if err != nil {
		return err
	}
	left := info.Size()

	// Every chunk but the last must hold exactly chunkSize bytes: the
	// decryptor frames the stream by sealed-chunk size.
	buf := make([]byte, chunkSize+1)
	var counter uint64
	for left > 0 {
		n := chunkSize
		if left < int64(chunkSize) {
			n = int(left)
		}
		if _, err := io.ReadFull(in, buf[:n]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		left -= int64(n)
		tag := tagMessage
		if left == 0 {
			tag = tagFinal
		}
		buf[n] = tag
		sealed := aead.Seal(nil, nonce(header, counter), buf[:n+1], nil)
		counter++
		if _, err := out.Write(sealed); err != nil {
			return err
		}
	}
	return out.Sync()
}

// Decrypt writes the decrypted form of cipherPath to plainPath.
//
// Files written before the magic existed start directly with the salt; when
// the first 4 bytes are not the magic they are kept as the start of the salt.
// A magic-less file whose first chunk fails to open is reported as
// ErrNotEncrypted, so callers can fall back to reading it as plain text.
// No plaintext is written to the output before its chunk authenticates.
func Decrypt(cipherPath, plainPath, password string) error {
	in, err := os.Open(cipherPath)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.Size() <= int64(len(magic)+saltSize+headerSize) {
		return ErrNotEncrypted
	}

	prefix := make([]byte, len(magic))
	if _, err := io.ReadFull(in, prefix); err != nil {
		return err
	}
	hasMagic := string(prefix) == string(magic)
	salt := make([]byte, saltSize)
	if hasMagic {
		if _, err := io.ReadFull(in, salt); err != nil {
			return err
		}
	} else {
		copy(salt, prefix)
		if _, err := io.ReadFull(in, salt[len(prefix):]); err != nil {
			return err
		}
	}
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(in, header); err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(deriveKey(password, salt))
	if err != nil {
		return err
	}

	out, err := os.Create(plainPath)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, sealedSize)
	var counter uint64
	for {
		n, err := io.ReadFull(in, buf)
		if n == 0 {
			// Stream ended without a final-tagged chunk.
			return ErrDecryptionFailed
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return err
		}
		opened, err := aead.Open(nil, nonce(header, counter), buf[:n], nil)
		if err != nil {
			// Without the magic there is no proof the file was ever
			// encrypted; a first chunk that does not authenticate means
			// the bytes are not in the envelope format at all. With the
			// magic present the failure can only be a bad password.
			if !hasMagic && counter == 0 {
				return ErrNotEncrypted
			}
			return ErrIncorrectPassword
		}
		counter++
		tag := opened[len(opened)-1]
		if _, err := out.Write(opened[:len(opened)-1]); err != nil {
			return err
		}
		if tag == tagFinal {
			return out.Sync()
		}
	}
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, kdfTime, kdfMemory, kdfThreads, keySize)
}

// nonce builds the per-chunk nonce: stream header then a big-endian counter.
func nonce(header []byte, counter uint64) []byte {
	n := make([]byte, chacha20poly1305.NonceSizeX)
	copy(n, header)
	binary.BigEndian.PutUint64(n[headerSize:], counter)
	return n
}
