// Package schema loads table metadata from PostgreSQL and renders it as an
// annotation block.
//
// Reader queries pg_catalog once per schema and returns a Snapshot. Renderer
// turns a Table into the comment block written into model files. Provider
// ties both together behind pgannotate.AnnotationProvider.
//
//	snap, err := schema.NewReader(pool).Load(ctx, "public")
//	provider := schema.NewProvider(snap, schema.NewRenderer(schema.DefaultRenderOptions()), nil)
//	text, err := provider.Render(ctx, "users")
package schema
