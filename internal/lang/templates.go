package lang

import "nerdpad/internal/types"

// templates holds one canonical hello-world snippet per supported language.
// Used for brand-new files and for the explicit reset-to-default action.
var templates = map[types.Language]string{
	types.LangC: `#include <stdio.h>

int main() {
    printf("Hello, World!\n");
    return 0;
}
`,
	types.LangCPP: `#include <iostream>
using namespace std;

int main() {
    cout << "Hello, World!" << endl;
    return 0;
}
`,
	types.LangJava: `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}
`,
	types.LangJavaScript: `console.log("Hello, World!");
`,
	types.LangPython: `print("Hello, World!")
`,
}

// Template returns the default boilerplate for a language. Unknown languages
// get the fallback language's template so a file never starts life empty by
// accident.
func Template(l types.Language) string {
	if t, ok := templates[l]; ok {
		return t
	}
	return templates[FallbackLanguage]
}
