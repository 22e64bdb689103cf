package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language is a source language the backend accepts.
type Language string

const (
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangTypeScript Language = "typescript"
	LangReact      Language = "react"
)

var languages = []Language{LangPython, LangJava, LangTypeScript, LangReact}

func (l Language) Label() string {
	switch l {
	case LangPython:
		return "Python"
	case LangJava:
		return "Java"
	case LangTypeScript:
		return "TypeScript"
	case LangReact:
		return "React"
	default:
		return string(l)
	}
}

func parseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range languages {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q (expected python|java|typescript|react)", s)
}

// languageForFile guesses the language from a file extension.
func languageForFile(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return LangPython, true
	case ".java":
		return LangJava, true
	case ".ts":
		return LangTypeScript, true
	case ".tsx", ".jsx":
		return LangReact, true
	}
	return "", false
}

// nextLanguage cycles through the supported languages.
func nextLanguage(l Language) Language {
	for i, known := range languages {
		if known == l {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

// Template returns the starter program shown for a language.
func (l Language) Template() string {
	return defaultTemplates[l]
}

var defaultTemplates = map[Language]string{
	LangPython: `# Python Example
def fibonacci(n):
    if n <= 1:
        return n
    return fibonacci(n-1) + fibonacci(n-2)

result = fibonacci(5)
print(f"Fibonacci of 5 is: {result}")`,

	LangJava: `public class Main {
    public static void main(String[] args) {
        int[] numbers = {1, 2, 3, 4, 5};
        int sum = 0;

        for (int num : numbers) {
            sum += num;
        }

        System.out.println("Sum: " + sum);
    }
}`,

	LangTypeScript: "function factorial(n: number): number {\n" +
		"    if (n <= 1) {\n" +
		"        return 1;\n" +
		"    }\n" +
		"    return n * factorial(n - 1);\n" +
		"}\n" +
		"\n" +
		"const result = factorial(5);\n" +
		"console.log(`Factorial of 5 is: ${result}`);",

	LangReact: `import React, { useState } from 'react';

function Counter() {
    const [count, setCount] = useState(0);

    return (
        <div>
            <p>Count: {count}</p>
            <button onClick={() => setCount(count + 1)}>
                Increment
            </button>
        </div>
    );
}`,
}
