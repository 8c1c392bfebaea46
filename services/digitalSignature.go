package services

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"

	"WardCare360/models"
)

func GenerateKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	return privateKey, &privateKey.PublicKey, nil
}

/*
* Accept a PKCS#1 "RSA PRIVATE KEY" or a PKCS#8 "PRIVATE KEY" block
* A PKCS#8 key must hold an RSA key
 */
func ParsePrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("signing key is not PEM encoded")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("signing key is not an RSA key")
	}
	return key, nil
}

func EncodePrivateKey(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func SignData(data []byte, privateKey *rsa.PrivateKey) (string, error) {
	hash := sha256.Sum256(data)
	signature, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

func VerifySignature(data []byte, base64Signature string, publicKey *rsa.PublicKey) error {
	signature, err := base64.StdEncoding.DecodeString(base64Signature)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, hash[:], signature)
}

func pdfDigest(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}

// draftPayload is the byte sequence a discharge draft's signature covers.
func draftPayload(draft *models.DischargeDraft) ([]byte, error) {
	return json.Marshal(struct {
		PatientID   string                        `json:"patientId"`
		AdmissionID string                        `json:"admissionId"`
		DoctorID    string                        `json:"doctorId"`
		Fields      models.DischargeSummaryFields `json:"fields"`
		FileID      string                        `json:"fileId"`
		FileURL     string                        `json:"fileUrl"`
		PDFDigest   string                        `json:"pdfDigest"`
	}{
		PatientID:   draft.PatientID,
		AdmissionID: draft.AdmissionID,
		DoctorID:    draft.Doctor.ID,
		Fields:      draft.Fields,
		FileID:      draft.FileID,
		FileURL:     draft.FileURL,
		PDFDigest:   draft.PDFDigest,
	})
}

func signDraft(draft *models.DischargeDraft) error {
	payload, err := draftPayload(draft)
	if err != nil {
		return err
	}
	signature, err := SignData(payload, signingKey)
	if err != nil {
		return err
	}
	draft.Signature = signature
	return nil
}

func verifyDraft(draft *models.DischargeDraft) error {
	payload, err := draftPayload(draft)
	if err != nil {
		return err
	}
	return VerifySignature(payload, draft.Signature, &signingKey.PublicKey)
}
