package ebxkey

import "lukechampine.com/blake3"

// Blake3 returns the 32-byte BLAKE3 digest of x. This is the hash engine the
// rest of this module treats as an external oracle: every other package
// reaches the hash only through this function or DoubleBlake3.
func Blake3(x []byte) [32]byte {
	return blake3.Sum256(x)
}

// DoubleBlake3 returns blake3(blake3(x)), the digest used for TxId and for
// the sighash. The PrivKey textual checksum uses a single Blake3.
func DoubleBlake3(x []byte) [32]byte {
	first := Blake3(x)
	return Blake3(first[:])
}
