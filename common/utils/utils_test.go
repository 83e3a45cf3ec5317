package utils

import (
	"testing"
)

func TestDateSig(t *testing.T) {
	hexKey := "7bbfec284ee43e328438d46ec803863c8e1367ab46072f7864c07e0a03ba61fd"
	key, err := HexToECDSA(hexKey)
	if err != nil {
		t.Fatal(err)
	}
	addr := PubkeyToAddress(key.PubKey())

	sig, err := SignDate(key)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyDateSig(sig, addr) {
		t.Error("signature generation and verification error")
	}

	other, _ := HexToECDSA("7b2546a5d4e658d079c6b2755c6d7495edd01a686fddae010830e9c93b23e398")
	if VerifyDateSig(sig, PubkeyToAddress(other.PubKey())) {
		t.Error("signature verified against the wrong address")
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0xA03196bF28ffABcab352fe6d58F4AA83998bebA1")
	if err != nil {
		t.Fatal(err)
	}
	if addr != "0xa03196bf28ffabcab352fe6d58f4aa83998beba1" {
		t.Error("address not normalized:", addr)
	}
	if _, err = ParseAddress("0x123"); err == nil {
		t.Error("short address accepted")
	}
}
