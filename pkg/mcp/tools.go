package mcp

import "github.com/mark3labs/mcp-go/mcp"

func getReferenceTool() mcp.Tool {
	return mcp.NewTool("get_reference",
		mcp.WithDescription("Returns the full component reference document as Markdown/MDX: "+
			"the preamble followed by one block per component with its import, properties table and example. "+
			"Prefer list_components plus get_component_reference when only a few components are needed."),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("Lists the documented components in reference order as JSON "+
			"objects with name, description and property count. Optionally filter by keyword."),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive substring matched against component names and descriptions"),
		),
	)
}

func getComponentReferenceTool() mcp.Tool {
	return mcp.NewTool("get_component_reference",
		mcp.WithDescription("Returns the rendered reference block for one component: import statement, "+
			"properties table (name, type, default, options, description) and usage example."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact component name as listed by list_components, e.g. \"Button\""),
		),
	)
}

func referenceResource() mcp.Resource {
	return mcp.NewResource(ReferenceURI, "Component reference",
		mcp.WithResourceDescription("Full rendered component reference document"),
		mcp.WithMIMEType("text/markdown"),
	)
}
