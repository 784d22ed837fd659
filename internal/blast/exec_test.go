package blast

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjtimmons/asmgraph/internal/search"
)

// fakeBLAST writes shell scripts standing in for the BLAST programs. makeblastdb
// records its arguments and the search programs write hits to their -out file
func fakeBLAST(t *testing.T, blastnHits, tblastnHits string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake BLAST programs are shell scripts")
	}

	bin := t.TempDir()
	write := func(name, body string) {
		script := "#!/bin/sh\n" + body
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755))
	}

	write("makeblastdb", `echo "$@" > "$(dirname "$0")/makeblastdb.args"`+"\n")
	output := func(hits string) string {
		return `while [ $# -gt 0 ]; do
  if [ "$1" = "-out" ]; then out="$2"; fi
  shift
done
cat > "$out" <<'HITS'
` + hits + "HITS\n"
	}
	write("blastn", output(blastnHits))
	write("tblastn", output(tblastnHits))
	write("broken", "echo 'BLAST Database error' >&2\nexit 2\n")
	return bin
}

func TestRunner(t *testing.T) {
	g := testGraph(t)
	bin := fakeBLAST(t,
		"gene1\t1+\t99.5\t20\t0\t1\t1\t20\t81\t100\t2e-50\t180\n",
		"kinase\t2+\t80.0\t2\t0\t0\t1\t2\t1\t6\t1e-3\t20\n",
	)
	dir := filepath.Join(t.TempDir(), "blast")
	r := &Runner{Dir: dir, BinDir: bin, Threads: 2}

	assert.Equal(t, Programs, r.Tools())
	p, err := r.LookPath("blastn")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "blastn"), p)

	require.NoError(t, r.BuildDatabase(context.Background(), g))
	args, err := os.ReadFile(filepath.Join(bin, "makeblastdb.args"))
	require.NoError(t, err)
	assert.Contains(t, string(args), "-dbtype nucl -out "+filepath.Join(dir, databaseName))

	gene1 := search.NewQuery("gene1", []byte(strings.Repeat("ACGT", 10)))
	kinase := search.NewQuery("kinase", []byte("MKVLAAGIVGLLLAQ"))
	require.NoError(t, r.Search(context.Background(), g, []*search.Query{gene1, kinase}))

	require.Len(t, gene1.Hits(), 1)
	assert.Equal(t, 81, gene1.Hits()[0].NodeStart)
	require.Len(t, kinase.Hits(), 1)
	assert.Equal(t, "2+", g.Name(kinase.Hits()[0].Node))

	queries, err := os.ReadFile(filepath.Join(dir, "protein_queries.fasta"))
	require.NoError(t, err)
	assert.Equal(t, ">kinase\nMKVLAAGIVGLLLAQ\n", string(queries))
}

func TestRunner_failure(t *testing.T) {
	g := testGraph(t)
	bin := fakeBLAST(t, "", "")
	require.NoError(t, os.Rename(filepath.Join(bin, "broken"), filepath.Join(bin, "makeblastdb")))

	r := &Runner{Dir: t.TempDir(), BinDir: bin}
	err := r.BuildDatabase(context.Background(), g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute makeblastdb")
	assert.Contains(t, err.Error(), "BLAST Database error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.Search(ctx, g, []*search.Query{search.NewQuery("gene1", []byte("ACGT"))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_withSearch(t *testing.T) {
	g := testGraph(t)
	bin := fakeBLAST(t, "gene1\t2\t100.0\t8\t0\t0\t1\t8\t1\t8\t0.0\t16.2\n", "")
	r := &Runner{Dir: t.TempDir(), BinDir: bin}

	queries := search.NewQueries()
	queries.Add(search.NewQuery("gene1", []byte("GGGGCCCC")))

	res := search.NewSearch(g, r, queries, search.WithLookPath(r.LookPath)).Auto(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, search.StatusOK, res.Status)
	assert.Equal(t, 1, res.Hits)
}
