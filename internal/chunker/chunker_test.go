package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyInput(t *testing.T) {
	c := New()

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\n\t  "))
}

func TestChunkSplitsOnConnectorsAndPunctuation(t *testing.T) {
	c := New()

	chunks := c.Chunk("Python, Django and AWS | machine learning; data pipelines")

	var texts []string
	for _, ch := range chunks {
		texts = append(texts, ch.Text)
	}
	// "AWS" falls below the minimal meaningful length and is discarded.
	assert.Equal(t, []string{"Python", "Django", "machine learning", "data pipelines"}, texts)
}

func TestChunkStripsNoise(t *testing.T) {
	c := New()

	text := "Contact me at john.doe@example.com or https://example.com/cv\n" +
		"Phone: +49 170 1234567\n" +
		"Kubernetes administration"

	chunks := c.Chunk(text)

	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.NotContains(t, ch.Text, "@")
		assert.NotContains(t, ch.Text, "http")
		assert.NotContains(t, ch.Text, "1234567")
	}
}

func TestChunkDropsNonMeaningfulFragments(t *testing.T) {
	c := New()

	text := "42\n2021-03-15\nPage 3\nof the and\nsoftware engineering"

	chunks := c.Chunk(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, "software engineering", chunks[0].Text)
}

func TestChunkDeduplicatesCaseInsensitive(t *testing.T) {
	c := New()

	chunks := c.Chunk("Python programming. python programming. PYTHON PROGRAMMING. Go services.")

	require.Len(t, chunks, 2)
	assert.Equal(t, "Python programming", chunks[0].Text)
	assert.Equal(t, "Go services", chunks[1].Text)
}

func TestChunkPreservesOrderAndOffsets(t *testing.T) {
	c := New()

	chunks := c.Chunk("backend development. frontend development. cloud architecture.")

	require.Len(t, chunks, 3)
	assert.Equal(t, "backend development", chunks[0].Text)
	assert.Equal(t, "frontend development", chunks[1].Text)
	assert.Equal(t, "cloud architecture", chunks[2].Text)
	assert.True(t, chunks[0].Offset < chunks[1].Offset)
	assert.True(t, chunks[1].Offset < chunks[2].Offset)
}

func TestChunkCapsAtMaxChunks(t *testing.T) {
	c := New()

	var b strings.Builder
	for i := 0; i < 3*MaxChunks; i++ {
		b.WriteString("skill entry number ")
		b.WriteString(strings.Repeat("x", i%7+1))
		b.WriteString(strings.Repeat("y", i/7+1))
		b.WriteString(". ")
	}

	chunks := c.Chunk(b.String())

	assert.LessOrEqual(t, len(chunks), MaxChunks)
	assert.Equal(t, MaxChunks, len(chunks))
}

func TestChunkIsDeterministicAndIdempotent(t *testing.T) {
	c := New()

	text := "Team leadership, project management and stakeholder communication.\n\n" +
		"- Go microservices\n- PostgreSQL tuning\n"

	first := c.Chunk(text)
	second := c.Chunk(text)
	require.Equal(t, first, second)

	// Re-chunking an already-clean fragment returns it unchanged.
	for _, ch := range first {
		again := c.Chunk(ch.Text)
		require.Len(t, again, 1)
		assert.Equal(t, ch.Text, again[0].Text)
	}
}

func TestChunkBulletLists(t *testing.T) {
	c := New()

	text := "Skills:\n- Docker containers\n- Terraform modules\n1. incident response\n2) capacity planning"

	chunks := c.Chunk(text)

	var texts []string
	for _, ch := range chunks {
		texts = append(texts, ch.Text)
	}
	assert.Contains(t, texts, "Docker containers")
	assert.Contains(t, texts, "Terraform modules")
	assert.Contains(t, texts, "incident response")
	assert.Contains(t, texts, "capacity planning")
}
