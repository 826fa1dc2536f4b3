package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// VoiceArchive guarda os áudios recebidos no S3 para auditoria e reanálise
// de comandos mal interpretados.
type VoiceArchive struct {
	client *s3.Client
	bucket string
}

func NewVoiceArchive(cfg S3Config) *VoiceArchive {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	})

	return &VoiceArchive{client: client, bucket: cfg.Bucket}
}

// Archive envia o áudio; falha só vira log, nunca interrompe o comando.
func (a *VoiceArchive) Archive(ctx context.Context, userID, fileID, mimeType string, audio []byte) {
	key := fmt.Sprintf("voice/%s/%s-%s.ogg", userID, time.Now().Format("20060102-150405"), fileID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		log.Println("voice archive error:", err)
	}
}
