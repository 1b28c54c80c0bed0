package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/config"
	"ottica-backend/internal/models"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

// BackupService exports and restores the whole document set. Exports are a
// single JSON document keyed by collection; restores wipe and rewrite.
type BackupService struct {
	Store store.Store
	Cfg   *config.Config
}

func NewBackupService(st store.Store, cfg *config.Config) *BackupService {
	return &BackupService{Store: st, Cfg: cfg}
}

// backupDoc is one exported record: the document id plus its fields
type backupDoc map[string]interface{}

// Export serializes every collection to one JSON blob. When R2 is
// configured a copy is uploaded off-site; upload failure does not fail the
// export, the blob is still returned to the caller.
func (s *BackupService) Export(ctx context.Context) ([]byte, error) {
	backup := make(map[string][]backupDoc)
	for _, coll := range models.AllCollections {
		snap, err := s.Store.List(ctx, coll)
		if err != nil {
			return nil, fmt.Errorf("esportazione %s: %w", coll, err)
		}
		docs := make([]backupDoc, 0, len(snap))
		for _, doc := range snap {
			d := make(backupDoc, len(doc.Fields)+1)
			for k, v := range doc.Fields {
				d[k] = v
			}
			d["id"] = doc.ID
			docs = append(docs, d)
		}
		backup[coll] = docs
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, err
	}

	if s.Cfg.R2.Enabled {
		if err := s.uploadToR2(ctx, data); err != nil {
			log.Printf("[Backup] R2 upload failed: %v", err)
		}
	}
	return data, nil
}

// Import restores a backup blob: every collection named in the backup is
// wiped in one batch, then repopulated in a second. Each batch is atomic;
// the wipe committing without the restore is the accepted worst case,
// matching the two-phase restore this replaces.
func (s *BackupService) Import(ctx context.Context, data []byte) error {
	var backup map[string][]backupDoc
	if err := json.Unmarshal(data, &backup); err != nil {
		return errors.New("file di backup non valido")
	}

	wipe := s.Store.Batch()
	for coll := range backup {
		snap, err := s.Store.List(ctx, coll)
		if err != nil {
			return err
		}
		for _, doc := range snap {
			wipe.Delete(coll, doc.ID)
		}
	}
	if err := wipe.Commit(ctx); err != nil {
		return fmt.Errorf("pulizia dati esistenti: %w", err)
	}

	restore := s.Store.Batch()
	for coll, docs := range backup {
		for _, d := range docs {
			id, _ := d["id"].(string)
			if id == "" {
				id = store.NewID()
			}
			fields := make(store.Fields, len(d))
			for k, v := range d {
				if k == "id" {
					continue
				}
				fields[k] = v
			}
			restore.Set(coll, id, fields)
		}
	}
	if err := restore.Commit(ctx); err != nil {
		return fmt.Errorf("ripristino dati: %w", err)
	}

	cache.InvalidateSaleCaches(ctx)
	cache.InvalidateKPICaches(ctx)
	cache.InvalidateLacCaches(ctx)
	return nil
}

func (s *BackupService) uploadToR2(ctx context.Context, data []byte) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.Cfg.R2.AccessKey,
			s.Cfg.R2.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.Cfg.R2.AccountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	key := fmt.Sprintf("backups/backup_gestionale_%s.json", timeutil.Now().Format("2006-01-02_150405"))
	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Cfg.R2.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}
