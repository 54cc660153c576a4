package project

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш единицы: H( settings || file1 || file2 ... ).
// Порядок частей должен быть детерминированным (порядок таблицы файлов).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest hashes every setting that changes the output of the preprocessor.
// Strings are length-prefixed so that adjacent values cannot run together.
func (s Settings) Digest() Digest {
	h := sha256.New()
	str := func(v string) {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(v)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(v))
	}
	str(strconv.Itoa(len(s.Propath)))
	for _, dir := range s.Propath {
		str(dir)
	}
	str(s.OpSys)
	str(s.WindowSystem)
	str(s.ProVersion)
	str(strconv.Itoa(s.ProcessArchitecture))
	str(strconv.FormatBool(s.BatchMode))
	str(strconv.FormatBool(s.BackslashEscape))
	str(strconv.FormatBool(s.SkipXCode))
	str(s.TokenStartChars)
	str(strconv.FormatBool(s.ProparseDirectives))
	str(s.Encoding)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
