package postgres_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/infra/postgres"
)

func introspected(table postgres.Table) []postgres.ColumnInfo {
	infos := make([]postgres.ColumnInfo, 0, len(table.Columns))
	for _, c := range table.Columns {
		infos = append(infos, postgres.ColumnInfo{
			Name:      c.Name,
			DataType:  c.DataType,
			MaxLength: c.Length,
			Nullable:  !c.NotNull && !c.PrimaryKey,
		})
	}
	return infos
}

var _ = Describe("Schema mapping", func() {
	Context("PostsTable", func() {
		It("is a consistent mapping", func() {
			Expect(postgres.PostsTable.Check()).To(Succeed())
			Expect(postgres.UsersTable.Check()).To(Succeed())
		})

		It("maps the entity fields to the expected columns", func() {
			title, ok := postgres.PostsTable.Column("Title")
			Expect(ok).To(BeTrue())
			Expect(title.Name).To(Equal("title"))
			Expect(title.Length).To(Equal(500))
			Expect(title.NotNull).To(BeTrue())

			author, ok := postgres.PostsTable.Column("Author")
			Expect(ok).To(BeTrue())
			Expect(author.NotNull).To(BeFalse())

			Expect(postgres.PostsTable.ColumnNames()).To(Equal([]string{
				"id", "title", "content", "author", "created_date", "modified_date",
			}))
		})

		It("renders the DDL", func() {
			ddl := postgres.PostsTable.CreateStatement()

			Expect(ddl).To(HavePrefix("CREATE TABLE IF NOT EXISTS posts ("))
			Expect(ddl).To(ContainSubstring("id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"))
			Expect(ddl).To(ContainSubstring("title VARCHAR(500) NOT NULL"))
			Expect(ddl).To(ContainSubstring("content TEXT NOT NULL"))
			Expect(ddl).To(ContainSubstring("author VARCHAR(255),"))
			Expect(ddl).To(ContainSubstring("created_date TIMESTAMPTZ NOT NULL DEFAULT NOW()"))
		})
	})

	Context("Validate", func() {
		It("accepts a matching database", func() {
			Expect(postgres.PostsTable.Validate(introspected(postgres.PostsTable))).To(Succeed())
		})

		It("reports every drifted column", func() {
			columns := introspected(postgres.PostsTable)
			columns = columns[1:] // drop id
			for i := range columns {
				switch columns[i].Name {
				case "title":
					columns[i].MaxLength = 255
				case "content":
					columns[i].Nullable = true
				}
			}

			err := postgres.PostsTable.Validate(columns)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("posts.id: column missing"))
			Expect(err.Error()).To(ContainSubstring("posts.title: length 255, mapping expects 500"))
			Expect(err.Error()).To(ContainSubstring("posts.content: column is nullable"))
		})
	})

	Context("Check", func() {
		It("rejects duplicated columns and missing primary keys", func() {
			table := postgres.Table{
				Name: "broken",
				Columns: []postgres.Column{
					{Field: "A", Name: "a", DataType: "text"},
					{Field: "B", Name: "a", DataType: "text"},
				},
			}

			err := table.Check()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("column a mapped twice"))
			Expect(err.Error()).To(ContainSubstring("expected exactly one primary key"))
		})
	})
})
