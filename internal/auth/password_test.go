package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// ハッシュ化したパスワードがVerifyで一致することを検証
func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned unexpected error: %v", err)
	}

	if !h.Verify("secret", hash) {
		t.Error("expected Verify to succeed for correct password")
	}
}

// 異なるパスワードはVerifyで一致しないことを検証
func TestPasswordHasher_Verify_WrongPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned unexpected error: %v", err)
	}

	if h.Verify("wrong", hash) {
		t.Error("expected Verify to fail for wrong password")
	}
}

// ソルトにより同じ平文でも呼び出しごとに異なるハッシュが生成されることを検証
// 等価判定はハッシュ文字列の比較ではなくVerifyで行う必要がある
func TestPasswordHasher_Hash_ProducesDifferentHashes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned unexpected error: %v", err)
	}
	hash2, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash returned unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("expected different hashes for the same plaintext (random salt)")
	}
	if !h.Verify("secret", hash1) || !h.Verify("secret", hash2) {
		t.Error("expected Verify to succeed for both hashes")
	}
}

// 不正な形式のハッシュはpanicせず不一致として扱われることを検証
func TestPasswordHasher_Verify_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$broken"} {
		if h.Verify("secret", hash) {
			t.Errorf("Verify(%q) = true, want false", hash)
		}
	}
}

// コストが範囲外の場合はデフォルトコストが使用されることを検証
func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	h := NewPasswordHasher(-1)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}

	h = NewPasswordHasher(bcrypt.MaxCost + 1)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}
}
