package toolset_test

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/toolset"
)

// ExampleExtractor_Extract lists the tools of a document in extraction order.
func ExampleExtractor_Extract() {
	doc, err := parser.New().Parse(filepath.Join("..", "parser", "testdata", "petstore.yaml"))
	if err != nil {
		log.Fatal(err)
	}
	tools, _ := toolset.New().Extract(doc)
	for _, t := range tools {
		fmt.Println(t.Name, t.Method, t.Path)
	}
	// Output:
	// listPets GET /pets
	// createPet POST /pets
	// showPetById GET /pets/{petId}
	// deletePets DELETE /pets/{petId}
	// placeOrder POST /store/orders
}
