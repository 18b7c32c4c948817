package generator_test

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/erraggy/oasmcp/generator"
)

// ExampleGenerateWithOptions builds the unit models of a document without
// emitting anything.
func ExampleGenerateWithOptions() {
	result, err := generator.GenerateWithOptions(
		generator.WithSource(filepath.Join("..", "parser", "testdata", "petstore.yaml")),
		generator.WithValidateOutput(false),
	)
	if err != nil {
		log.Fatal(err)
	}
	for _, u := range result.Units {
		fmt.Printf("%s: %d tools, oauth %s\n", u.Name, len(u.Tools), u.OAuth.FlowType)
	}
	fmt.Println("success:", result.Success)
	// Output:
	// swagger-petstore: 5 tools, oauth authorizationCode
	// success: true
}

// ExampleGenerateWithOptions_forceSplit splits a document by primary tag.
func ExampleGenerateWithOptions_forceSplit() {
	result, err := generator.GenerateWithOptions(
		generator.WithSource(filepath.Join("..", "parser", "testdata", "petstore.yaml")),
		generator.WithForceSplit(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	for _, u := range result.Units {
		fmt.Printf("%s: %d tools\n", u.Name, len(u.Tools))
	}
	// Output:
	// swagger-petstore---pets-1: 4 tools
	// swagger-petstore---store-2: 1 tools
}
