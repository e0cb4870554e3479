package web

const contentFields = `
      id
      title
      description
      createdAt
      updatedAt`

const (
	getContentsQuery = `
  query GetContents {
    contents {` + contentFields + `
    }
  }`

	getContentQuery = `
  query GetContent($id: Int!) {
    content(id: $id) {` + contentFields + `
    }
  }`

	createContentMutation = `
  mutation CreateContent($input: CreateContentInput!) {
    createContent(input: $input) {` + contentFields + `
    }
  }`

	updateContentMutation = `
  mutation UpdateContent($id: Int!, $input: UpdateContentInput!) {
    updateContent(id: $id, input: $input) {` + contentFields + `
    }
  }`

	deleteContentMutation = `
  mutation DeleteContent($id: Int!) {
    deleteContent(id: $id)
  }`
)
