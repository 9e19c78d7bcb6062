// Package shell adapta las herramientas externas de PostgreSQL y compresión
// (pg_dump, psql, gzip, gunzip) a los puertos del caso de uso de respaldos.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/farmaven/farmacia-api/internal/application/backup"
	"github.com/farmaven/farmacia-api/internal/domain"
)

var _ backup.Dumper = (*PgDump)(nil)
var _ backup.Restorer = (*Psql)(nil)
var _ backup.Compressor = (*Gzip)(nil)

// PgDump vuelca la base de datos con pg_dump en formato SQL plano.
type PgDump struct {
	binPath string
	dsn     string
}

// NewPgDump construye el adaptador. dsn es el connection string completo.
func NewPgDump(binPath, dsn string) *PgDump {
	return &PgDump{binPath: binPath, dsn: dsn}
}

// Dump ejecuta pg_dump hacia outPath. includeSchema/includeData controlan
// --schema-only y --data-only; ambos en true vuelca todo.
func (p *PgDump) Dump(ctx context.Context, outPath string, includeSchema, includeData bool) error {
	args := []string{
		"--dbname=" + p.dsn,
		"--format=plain",
		"--no-owner",
		"--no-privileges",
		"--file=" + outPath,
	}
	switch {
	case includeSchema && !includeData:
		args = append(args, "--schema-only")
	case includeData && !includeSchema:
		args = append(args, "--data-only")
	case !includeSchema && !includeData:
		return domain.ErrInvalidInput
	}
	return run(ctx, p.binPath, args...)
}

// Psql aplica un archivo SQL plano con psql.
type Psql struct {
	binPath string
	dsn     string
}

// NewPsql construye el adaptador.
func NewPsql(binPath, dsn string) *Psql {
	return &Psql{binPath: binPath, dsn: dsn}
}

// Restore ejecuta el archivo SQL contra la base de datos.
// ON_ERROR_STOP aborta en el primer error en lugar de seguir a medias.
func (p *Psql) Restore(ctx context.Context, sqlPath string) error {
	return run(ctx, p.binPath,
		"--dbname="+p.dsn,
		"--set", "ON_ERROR_STOP=on",
		"--file="+sqlPath,
	)
}

// Gzip comprime y descomprime archivos de respaldo con gzip/gunzip.
type Gzip struct {
	gzipPath   string
	gunzipPath string
}

// NewGzip construye el adaptador.
func NewGzip(gzipPath, gunzipPath string) *Gzip {
	return &Gzip{gzipPath: gzipPath, gunzipPath: gunzipPath}
}

// Compress comprime path en sitio (gzip reemplaza el archivo) y devuelve path + ".gz".
func (g *Gzip) Compress(ctx context.Context, path string) (string, error) {
	if err := run(ctx, g.gzipPath, "-f", path); err != nil {
		return "", err
	}
	return path + ".gz", nil
}

// Decompress descomprime path (.gz) conservando el original (-k no es portable,
// así que se descomprime a stdout redirigido).
func (g *Gzip) Decompress(ctx context.Context, path string) (string, error) {
	outPath := strings.TrimSuffix(path, ".gz")
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.gunzipPath, "-c", path)
	cmd.Stdout = out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(outPath)
		return "", toolError(g.gunzipPath, err, stderr.String())
	}
	return outPath, nil
}

// run ejecuta el binario capturando stderr para el mensaje de error.
func run(ctx context.Context, bin string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return toolError(bin, err, stderr.String())
	}
	return nil
}

func toolError(bin string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrExternalTool, bin, stderr)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrExternalTool, bin, err)
}
